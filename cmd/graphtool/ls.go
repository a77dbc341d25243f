package main

import (
	"fmt"

	msgraph "github.com/jhoneill/MSGraphAPI"
)

func doLs(s settings, format, match string) error {
	client := setupClient(s)

	notebooks, err := client.ListNotebooks(match, true)
	if err != nil {
		return err
	}

	if len(notebooks) == 0 {
		fmt.Println("Found no matching notebooks.")
		return nil
	}

	root := msgraph.BuildTree(notebooks)
	root.Sort(msgraph.DefaultSort)

	fmt.Println("OneNote Notebooks")
	fmt.Println("-----------------")

	switch format {
	case "tree":
		showTree(root, 0)
	case "list":
		showList(root)
	default:
		return fmt.Errorf("unsupported format, choose one of 'tree', 'list'")
	}

	return nil
}

func doSections(s settings, target, match string) error {
	client := setupClient(s)

	sections, err := client.ListSections(msgraph.ParseHandle(target), match)
	if err != nil {
		return err
	}

	if len(sections) == 0 {
		fmt.Println("Found no matching sections.")
		return nil
	}

	for _, sec := range sections {
		notebook := ""
		if sec.Notebook != nil {
			notebook = sec.Notebook.DisplayName + " / "
		}
		fmt.Printf("%v%v\n", notebook, sec.DisplayName)
	}
	return nil
}

func doPages(s settings, target, match string) error {
	client := setupClient(s)

	pages, err := client.ListPages(msgraph.ParseHandle(target), match)
	if err != nil {
		return err
	}

	if len(pages) == 0 {
		fmt.Println("Found no matching pages.")
		return nil
	}

	dateFormat := "Jan 02 2006, 15:04"
	for _, p := range pages {
		fmt.Printf("%v | %v\n", p.LastModifiedDateTime.Format(dateFormat), p.Title)
	}
	return nil
}

func showTree(n *msgraph.Node, level int) {
	if level > 0 {
		for i := 1; i < level; i++ {
			fmt.Print("  ")
		}

		if n.Leaf() {
			fmt.Print("- ")
		} else {
			fmt.Print("+ ")
		}
		fmt.Println(n.Name())
	}

	for _, c := range n.Children {
		showTree(c, level+1)
	}
}

func showList(n *msgraph.Node) {
	show := func(n *msgraph.Node) error {
		switch n.Kind() {
		case msgraph.NotebookNode:
			fmt.Print("n ")
		case msgraph.SectionNode:
			fmt.Print("s ")
		default:
			fmt.Print("  ")
		}
		fmt.Println(n.Name())
		return nil
	}
	n.Walk(show)
}
