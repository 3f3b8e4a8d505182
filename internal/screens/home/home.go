// Package home is the arcade's start screen: a menu with one entry per
// mini-game.
package home

import (
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathiz-arcade/internal/bank"
	"github.com/abhisek/mathiz-arcade/internal/config"
	"github.com/abhisek/mathiz-arcade/internal/games"
	"github.com/abhisek/mathiz-arcade/internal/round"
	"github.com/abhisek/mathiz-arcade/internal/router"
	"github.com/abhisek/mathiz-arcade/internal/screen"
	"github.com/abhisek/mathiz-arcade/internal/screens/play"
	"github.com/abhisek/mathiz-arcade/internal/store"
	"github.com/abhisek/mathiz-arcade/internal/ui/components"
	"github.com/abhisek/mathiz-arcade/internal/ui/layout"
)

// Deps are what the home screen hands to each game it starts.
type Deps struct {
	Banks  *bank.Registry
	Events store.EventRepo
	Logger *slog.Logger
	Play   config.PlayConfig
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps  Deps
	games []games.Game
	menu  components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps, games: games.All()}

	items := make([]components.MenuItem, 0, len(h.games)+1)
	for _, g := range h.games {
		items = append(items, components.MenuItem{
			Label: strings.ToUpper(g.Name),
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PushScreenMsg{Screen: h.Start(g)} }
			},
		})
	}
	items = append(items, components.MenuItem{Label: "EXIT ARCADE", Action: func() tea.Cmd {
		return tea.Quit
	}})

	h.menu = components.NewMenu(items)
	return h
}

// Start builds the play screen for g from its topic's bank.
func (h *HomeScreen) Start(g games.Game) screen.Screen {
	if h.deps.Banks == nil {
		return play.Failed(g, bank.ErrUnknownTopic)
	}
	b, err := h.deps.Banks.Get(g.Topic)
	if err != nil {
		return play.Failed(g, err)
	}

	opts := []round.Option{round.WithLogger(h.deps.Logger)}
	if h.deps.Events != nil {
		opts = append(opts, round.WithEvents(h.deps.Events))
	}
	return play.New(g, h.deps.Play.Prepare(b), opts...)
}

// Selected returns the highlighted game, false on the exit entry.
func (h *HomeScreen) Selected() (games.Game, bool) {
	if h.menu.Selected < len(h.games) {
		return h.games[h.menu.Selected], true
	}
	return games.Game{}, false
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose game"},
		{Key: "Enter", Description: "Play"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer
	termHeight := height + layout.HeaderHeight + layout.FooterHeight
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if g, ok := h.Selected(); ok {
		sections = append(sections, renderGameCard(g, cw))
	}
	sections = append(sections, components.ArcadeMenu(h.menu, cw, compact))

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
