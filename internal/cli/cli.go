package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	List           *ListCommand
	Add            *AddCommand
	Delete         *DeleteCommand
	Categories     *CategoriesCommand
	Export         *ExportCommand
	Import         *ImportCommand
	Versions       *VersionsCommand
	SaveVersion    *SaveVersionCommand
	RestoreVersion *RestoreVersionCommand
	RenameVersion  *RenameVersionCommand
	DeleteVersion  *DeleteVersionCommand
	Homepage       *HomepageCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(globals *GlobalFlags) (*goflags.Parser, *commands) {
	parser := goflags.NewParser(globals, goflags.Default)
	parser.Name = "havenctl"
	parser.LongDescription = "Manage Haven bookmarks, backups and saved versions from the command line."

	cmds := &commands{
		List:           &ListCommand{globals: globals},
		Add:            &AddCommand{globals: globals},
		Delete:         &DeleteCommand{globals: globals},
		Categories:     &CategoriesCommand{globals: globals},
		Export:         &ExportCommand{globals: globals},
		Import:         &ImportCommand{globals: globals},
		Versions:       &VersionsCommand{globals: globals},
		SaveVersion:    &SaveVersionCommand{globals: globals},
		RestoreVersion: &RestoreVersionCommand{globals: globals},
		RenameVersion:  &RenameVersionCommand{globals: globals},
		DeleteVersion:  &DeleteVersionCommand{globals: globals},
		Homepage:       &HomepageCommand{globals: globals},
	}

	mustAdd(parser, "list", "List bookmarks", "List bookmarks, optionally filtered by a search term.", cmds.List)
	mustAdd(parser, "add", "Add a bookmark", "Add a bookmark. The category is created when it does not exist.", cmds.Add)
	mustAdd(parser, "delete", "Delete a bookmark", "Delete a bookmark without confirmation.", cmds.Delete)
	mustAdd(parser, "categories", "List categories", "List categories in display order.", cmds.Categories)
	mustAdd(parser, "export", "Export a backup", "Write every bookmark, category and setting to a backup file.", cmds.Export)
	mustAdd(parser, "import", "Import a backup", "Replace all data with the content of a backup file.", cmds.Import)
	mustAdd(parser, "versions", "List saved versions", "List saved backup versions, newest first.", cmds.Versions)
	mustAdd(parser, "save-version", "Save a version", "Snapshot the current data as a named version.", cmds.SaveVersion)
	mustAdd(parser, "restore-version", "Restore a version", "Overwrite all data with a saved version.", cmds.RestoreVersion)
	mustAdd(parser, "rename-version", "Rename a version", "Rename a saved version.", cmds.RenameVersion)
	mustAdd(parser, "delete-version", "Delete a version", "Delete a saved version.", cmds.DeleteVersion)
	mustAdd(parser, "homepage", "Merge homepage bookmarks", "Merge a homepage bookmarks.yaml into the collection once.", cmds.Homepage)

	return parser, cmds
}

func mustAdd(p *goflags.Parser, name, short, long string, data any) {
	if _, err := p.AddCommand(name, short, long, data); err != nil {
		panic(fmt.Sprintf("register command %s: %v", name, err))
	}
}

// Run is the main entry point for havenctl using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	return run(&GlobalFlags{}, version, args)
}

func run(globals *GlobalFlags, version string, args []string) error {
	// --version is valid without a subcommand, go-flags would reject it.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			_, err := fmt.Fprintf(globals.writer(), "havenctl %s\n", version)
			return err
		}
		if arg == "--" {
			break
		}
	}

	parser, _ := buildParser(globals)
	parser.CommandHandler = func(cmd goflags.Commander, args []string) error {
		setupLogging(globals.Verbose)
		return cmd.Execute(args)
	}

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}
