package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stoplist/internal/notify"
	"github.com/mesh-intelligence/stoplist/pkg/types"
)

const shellHelp = `Commands:
  list [term]               show the menu, optionally filtered by name
  toggle <item-id>          flip one item
  toggle-category <ref>     stop or restore a category (label or custom:<id>)
  create <ids> <name>       create a custom category from comma-separated item IDs
  delete <category-id>      delete a custom category
  categories                list custom categories
  save                      save changes
  discard                   revert items to the last save
  status                    show availability counts and unsaved state
  help                      show this help
  quit                      leave the shell
`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Edit the stop list interactively",
		Long: `Shell opens the selected restaurant's menu and reads commands from standard
input. Changes stay unsaved until "save"; "discard" reverts item availability
to the last save. Type "help" for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			out := cmd.OutOrStdout()
			s, err := a.openSession(cmd.Context(), backend, notify.NewWriter(out))
			if err != nil {
				return err
			}
			sh := &shell{ctx: cmd.Context(), session: s, out: out}
			return sh.run(cmd.InOrStdin())
		},
	}
}

// shell executes line commands against one session.
type shell struct {
	ctx     context.Context
	session *session
	out     io.Writer
}

// run reads commands until quit or end of input. Unsaved changes are
// dropped on exit with a warning.
func (sh *shell) run(in io.Reader) error {
	e := sh.session.engine
	fmt.Fprintf(sh.out, "%s: type \"help\" for commands\n", sh.session.restaurant.Name)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			break
		}
		if quit := sh.exec(scanner.Text()); quit {
			break
		}
	}
	e.Wait()
	if e.Dirty() {
		fmt.Fprintln(sh.out, "Unsaved changes were not saved")
	}
	return scanner.Err()
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(line string) bool {
	e := sh.session.engine
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "":
	case "list", "ls":
		st := e.State()
		available, total := st.Counts()
		writeMenu(sh.out, newMenuView(sh.session.restaurant, st.Grouped(rest), available, total, st.Dirty()))
	case "toggle":
		if rest == "" {
			fmt.Fprintln(sh.out, "usage: toggle <item-id>")
		} else if !e.ToggleItem(rest) {
			fmt.Fprintf(sh.out, "unknown item %q\n", rest)
		}
	case "toggle-category":
		if rest == "" {
			fmt.Fprintln(sh.out, "usage: toggle-category <ref>")
		} else if !e.ToggleCategory(types.ParseCategoryRef(rest)) {
			fmt.Fprintf(sh.out, "unknown or empty category %q\n", rest)
		}
	case "create":
		ids, catName, _ := strings.Cut(rest, " ")
		if ids == "" {
			fmt.Fprintln(sh.out, "usage: create <id,id,...> <name>")
			break
		}
		// Failures are reported by the notifier.
		if cat, err := e.CreateCustomCategory(catName, splitIDs(ids)); err == nil {
			fmt.Fprintln(sh.out, types.CustomRef(cat.ID))
		}
	case "delete":
		if rest == "" {
			fmt.Fprintln(sh.out, "usage: delete <category-id>")
		} else if !e.DeleteCustomCategory(rest) {
			fmt.Fprintf(sh.out, "unknown category %q\n", rest)
		}
	case "categories":
		writeCategories(sh.out, e.State().CustomCategories())
	case "save":
		<-e.Save(sh.ctx)
	case "discard":
		e.Discard()
	case "status":
		st := e.State()
		available, total := st.Counts()
		state := "saved"
		if st.Dirty() {
			state = "unsaved changes"
		}
		fmt.Fprintf(sh.out, "%d/%d available, %s\n", available, total, state)
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(sh.out, "unknown command %q; type \"help\"\n", name)
	}
	return false
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
