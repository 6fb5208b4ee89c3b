// Package consolehandler is an interactive text browser over the page
// renderer. It keeps its own session history, in path or fragment form.
package consolehandler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/navigation"
)

const prompt = "> "

const helpText = `commands:
  open <href>       go to an address ("/course/x", "#/course/x", full URL)
  click <n>         follow link n
  back, forward     move through history
  q <text>          free-text filter, empty to clear
  cat|unit|type|year <value>
                    set one filter, empty to clear
  reset             clear every filter
  where             print the current address
  history           print the session history
  quit`

type Browser struct {
	nav     *navigation.Navigator
	history *navigation.History
	surface *textSurface
	out     io.Writer
	log     *slog.Logger
}

// NewBrowser creates a browser whose history starts at start. A start of
// the form "#/..." or "/#/..." is read as a fragment address.
func NewBrowser(renderer navigation.PageRenderer, addr navigation.Addressing, origin, start string, out io.Writer, log *slog.Logger) *Browser {
	href := start
	if strings.Contains(start, "#/") {
		href = navigation.FragmentAddressing{}.Href(start)
	}

	h := navigation.NewHistory(addr.Address(href))
	s := newTextSurface(out)

	return &Browser{
		nav:     navigation.NewNavigator(h, addr, renderer, s, origin, log),
		history: h,
		surface: s,
		out:     out,
		log:     log.With(slog.String("item", "Browser")),
	}
}

// Run renders the start page and then executes commands from in until
// quit or EOF.
func (b *Browser) Run(ctx context.Context, in io.Reader) error {
	b.nav.Start(ctx)
	b.nav.Wait()

	sc := bufio.NewScanner(in)
	for {
		io.WriteString(b.out, prompt)
		if !sc.Scan() {
			break
		}

		if quit := b.exec(ctx, sc.Text()); quit {
			return nil
		}
		b.nav.Wait()

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("cannot read command: %w", err)
	}

	return nil
}

func (b *Browser) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(b.out, helpText)
	case "open":
		if !b.nav.Click(ctx, navigation.LinkEvent{Href: arg}) {
			fmt.Fprintf(b.out, "not an address of this site: %s\n", arg)
		}
	case "click":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(b.out, "bad link number: %s\n", arg)

			break
		}
		href, ok := b.surface.Link(n)
		if !ok {
			fmt.Fprintf(b.out, "no link %d\n", n)

			break
		}
		b.nav.Click(ctx, navigation.LinkEvent{Href: href})
	case "back":
		if !b.nav.Back(ctx) {
			fmt.Fprintln(b.out, "no previous page")
		}
	case "forward":
		if !b.nav.Forward(ctx) {
			fmt.Fprintln(b.out, "no next page")
		}
	case "q", "cat", "unit", "type", "year":
		st := b.state()
		switch cmd {
		case "q":
			st.Query = arg
		case "cat":
			st.Category = arg
		case "unit":
			st.Unit = arg
		case "type":
			st.QuestionType = arg
		case "year":
			st.Year = arg
		}
		b.nav.UpdateFilter(ctx, st)
	case "reset":
		b.nav.UpdateFilter(ctx, entity.FilterState{})
	case "where":
		fmt.Fprintln(b.out, b.history.Current())
	case "history":
		b.printHistory()
	default:
		b.log.Debug("Unknown command", slog.String("cmd", cmd))
		fmt.Fprintf(b.out, "unknown command %q, try help\n", cmd)
	}

	return false
}

func (b *Browser) state() entity.FilterState {
	if p := b.surface.Page(); p != nil {
		return p.State
	}

	return entity.FilterState{}
}

func (b *Browser) printHistory() {
	entries, cur := b.history.Entries()
	for i, e := range entries {
		mark := " "
		if i == cur {
			mark = "*"
		}
		fmt.Fprintf(b.out, "%s %s\n", mark, e)
	}
}
