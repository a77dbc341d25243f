package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/alecthomas/kingpin.v2"

	msgraph "github.com/jhoneill/MSGraphAPI"
	"github.com/jhoneill/MSGraphAPI/pkg/api"
)

const (
	checkmark = "✓"
	crossmark = "✗"
)

// Environment variables read at startup. A .env file in the working
// directory is honored.
const (
	envBaseURL        = "GRAPH_BASE_URL"
	envAccessToken    = "GRAPH_ACCESS_TOKEN"
	envDefaultSection = "GRAPH_DEFAULT_SECTION"
)

type settings struct {
	baseURL        string
	token          string
	defaultSection string
}

func main() {
	app := kingpin.New("graphtool", "Microsoft Graph notebook and directory tool")
	app.HelpFlag.Short('h')
	logLevel := app.Flag("log", "Log level (debug, info, warning, error)").Default("warning").String()

	ls := app.Command("ls", "List notebooks with their sections").Default()
	var (
		lsFormat = ls.Flag("format", "Output format").Short('f').Default("tree").String()
		lsMatch  = ls.Arg("match", "Notebook name must start with this").String()
	)

	sections := app.Command("sections", "List sections")
	var (
		secTarget = sections.Arg("notebook", "Notebook URL, or section name prefix").String()
		secMatch  = sections.Flag("match", "Section name must start with this").Short('m').String()
	)

	pages := app.Command("pages", "List pages")
	var (
		pgTarget = pages.Arg("section", "Section URL, or page title prefix").String()
		pgMatch  = pages.Flag("match", "Page title must start with this").Short('m').String()
	)

	sectionAdd := app.Command("section-add", "Create a section in a notebook")
	var (
		saNotebook = sectionAdd.Arg("notebook", "Notebook name or URL").Required().String()
		saName     = sectionAdd.Arg("name", "Name for the new section").Required().String()
	)

	pageAdd := app.Command("page-add", "Create a page")
	var (
		paTitle   = pageAdd.Flag("title", "Page title").Required().String()
		paSection = pageAdd.Flag("section", "Target section name or URL").Short('s').String()
		paBody    = pageAdd.Flag("body", "HTML body file, - for stdin").Short('b').String()
		paFile    = pageAdd.Flag("file", "File to embed into the page").String()
		paMime    = pageAdd.Flag("mime", "MIME type override for --file").String()
	)

	pageShow := app.Command("page-show", "Show a page")
	var (
		psTarget  = pageShow.Arg("page", "Page title or URL").Required().String()
		psContent = pageShow.Flag("content", "Print the HTML content").Bool()
		psIDs     = pageShow.Flag("ids", "Print HTML annotated with element IDs").Bool()
	)

	pageUpdate := app.Command("page-update", "Apply a partial update to a page")
	var (
		puTarget   = pageUpdate.Arg("page", "Page title or URL").Required().String()
		puAction   = pageUpdate.Flag("action", "replace, append, delete, insert or prepend").Default("append").String()
		puElement  = pageUpdate.Flag("target", "Element to modify (default: whole body)").String()
		puContent  = pageUpdate.Flag("content", "Literal HTML or text content").String()
		puPosition = pageUpdate.Flag("position", "before or after, insert only").String()
		puForce    = pageUpdate.Flag("force", "Skip confirmation").Bool()
	)

	pageRm := app.Command("page-rm", "Delete one or more pages")
	var (
		prTargets = pageRm.Arg("page", "Page titles or URLs").Required().Strings()
		prForce   = pageRm.Flag("force", "Skip confirmation").Bool()
	)

	sp := app.Command("sp", "Look up service principals")
	var (
		spIDs        = sp.Arg("id", "Object IDs or display-name prefixes").Strings()
		spManaged    = sp.Flag("managed-identity", "Only managed identities").Bool()
		spApps       = sp.Flag("application", "Only application principals").Bool()
		spFirstParty = sp.Flag("first-party", "Only well-known first-party O365 applications").Bool()
		spFilter     = sp.Flag("filter", "Additional OData filter, ANDed with the rest").String()
		spRoles      = sp.Flag("roles", "Show app roles").Bool()
		spRole       = sp.Flag("role", "Show app roles starting with this").String()
		spScopes     = sp.Flag("scopes", "Show OAuth2 permission scopes").Bool()
		spScope      = sp.Flag("scope", "Show scopes starting with this").String()
	)

	export := app.Command("export", "Export a Planner plan to a spreadsheet")
	var (
		exPlan   = export.Arg("plan", "Plan ID").Required().String()
		exFormat = export.Flag("format", "csv or pdf").Short('f').Default("csv").String()
		exOut    = export.Flag("output", "Output file, - for stdout").Short('o').Default("-").String()
	)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	msgraph.SetLogLevel(*logLevel)
	s := loadSettings()

	var err error
	switch command {
	case "ls":
		err = doLs(s, *lsFormat, *lsMatch)
	case "sections":
		err = doSections(s, *secTarget, *secMatch)
	case "pages":
		err = doPages(s, *pgTarget, *pgMatch)
	case "section-add":
		err = doSectionAdd(s, *saNotebook, *saName)
	case "page-add":
		err = doPageAdd(s, *paSection, *paTitle, *paBody, *paFile, *paMime)
	case "page-show":
		err = doPageShow(s, *psTarget, *psContent, *psIDs)
	case "page-update":
		err = doPageUpdate(s, *puTarget, *puElement, *puAction, *puContent, *puPosition, *puForce)
	case "page-rm":
		err = doPageRm(s, *prTargets, *prForce)
	case "sp":
		err = doSp(s, *spIDs, principalFlags{
			managed:    *spManaged,
			apps:       *spApps,
			firstParty: *spFirstParty,
			filter:     *spFilter,
			roles:      *spRoles,
			role:       *spRole,
			scopes:     *spScopes,
			scope:      *spScope,
		})
	case "export":
		err = doExport(s, *exPlan, *exFormat, *exOut)
	default:
		err = fmt.Errorf("unknown command: %q", command)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// loadSettings reads the environment once at the boundary. Internal
// logic only ever sees the resulting values.
func loadSettings() settings {
	// a missing .env file is fine
	_ = godotenv.Load()

	return settings{
		baseURL:        os.Getenv(envBaseURL),
		token:          os.Getenv(envAccessToken),
		defaultSection: os.Getenv(envDefaultSection),
	}
}

func setupClient(s settings) *api.Client {
	client := api.NewClient(s.baseURL, s.token)
	client.DefaultSection = s.defaultSection
	return client
}

// promptConfirm asks on the terminal before a destructive operation.
func promptConfirm(action string) api.ConfirmFunc {
	reader := bufio.NewReader(os.Stdin)
	return func(title string) bool {
		fmt.Printf("%s %q? [y/N] ", action, title)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		line = strings.TrimSpace(strings.ToLower(line))
		return line == "y" || line == "yes"
	}
}
