package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	msgraph "github.com/jhoneill/MSGraphAPI"
	"github.com/jhoneill/MSGraphAPI/pkg/api"
)

func doSectionAdd(s settings, notebook, name string) error {
	client := setupClient(s)

	sec, err := client.CreateSection(msgraph.ParseHandle(notebook), name)
	if err != nil {
		return err
	}
	fmt.Printf("%v created section %q\n", checkmark, sec.DisplayName)
	return nil
}

func doPageAdd(s settings, section, title, bodyPath, filePath, mimeType string) error {
	client := setupClient(s)
	target := msgraph.ParseHandle(section)

	var page *msgraph.Page
	var err error
	if filePath != "" {
		data, rerr := os.ReadFile(filePath)
		if rerr != nil {
			return rerr
		}
		attachment := msgraph.Attachment{
			Name:     filepath.Base(filePath),
			Data:     data,
			MimeType: mimeType,
		}
		page, err = client.CreatePageWithAttachment(target, title, attachment)
	} else {
		body, rerr := readBody(bodyPath)
		if rerr != nil {
			return rerr
		}
		doc := msgraph.NewPageDocument(title, body)
		page, err = client.CreatePage(target, doc)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%v created page %q\n", checkmark, page.Title)
	return nil
}

func readBody(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func doPageShow(s settings, target string, content, withIDs bool) error {
	client := setupClient(s)

	page, err := client.GetPageContent(msgraph.ParseHandle(target), api.ContentModeFor(content, withIDs))
	if err != nil {
		return err
	}

	if page.Content != "" {
		fmt.Println(page.Content)
		return nil
	}

	fmt.Printf("Title:    %v\n", page.Title)
	fmt.Printf("Modified: %v\n", page.LastModifiedDateTime)
	fmt.Printf("Link:     %v\n", page.Self)
	if page.Section != nil {
		fmt.Printf("Section:  %v\n", page.Section.DisplayName)
	}
	return nil
}

func doPageUpdate(s settings, target, element, action, content, position string, force bool) error {
	client := setupClient(s)

	cmd := msgraph.NewPatchCommand(element, msgraph.PatchAction(action), content)
	cmd.Position = msgraph.PatchPosition(position)

	var confirm api.ConfirmFunc
	if !force {
		confirm = promptConfirm("update page")
	}

	err := client.UpdatePage(msgraph.ParseHandle(target), []msgraph.PatchCommand{cmd}, confirm)
	if err != nil {
		if msgraph.IsNotFound(err) {
			fmt.Printf("%v page %q not found\n", crossmark, target)
			return nil
		}
		if msgraph.IsSkipped(err) {
			fmt.Printf("%v skipped %q\n", crossmark, target)
			return nil
		}
		return err
	}
	fmt.Printf("%v updated %q\n", checkmark, target)
	return nil
}

// doPageRm deletes pages one at a time, in input order. Failures on one
// page are reported and do not stop the batch; the first error is
// returned at the end.
func doPageRm(s settings, targets []string, force bool) error {
	client := setupClient(s)

	var confirm api.ConfirmFunc
	if !force {
		confirm = promptConfirm("delete page")
	}

	var firstErr error
	for _, t := range targets {
		err := client.DeletePage(msgraph.ParseHandle(t), confirm)
		switch {
		case err == nil:
			fmt.Printf("%v deleted %q\n", checkmark, t)
		case msgraph.IsNotFound(err):
			// already gone, nothing to do
			fmt.Printf("%v page %q not found, skipping\n", crossmark, t)
		case msgraph.IsSkipped(err):
			fmt.Printf("%v skipped %q\n", crossmark, t)
		case msgraph.IsMissingTarget(err) || msgraph.IsUnresolvableTarget(err):
			fmt.Printf("%v cannot resolve %q: %v\n", crossmark, t, err)
		default:
			fmt.Printf("%v failed to delete %q: %v\n", crossmark, t, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
