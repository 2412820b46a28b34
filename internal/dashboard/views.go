package dashboard

import (
	"fmt"

	"github.com/pable/scrimstats/internal/aggregator"
	"github.com/pable/scrimstats/internal/model"
)

// View names one menu entry.
type View string

const (
	ViewPlayers   View = "players"
	ViewMap       View = "map"
	ViewAgents    View = "agents"
	ViewMatch     View = "match"
	ViewMaps      View = "maps"
	ViewMapAgents View = "map-agents"
	ViewHistory   View = "history"
	ViewTeams     View = "teams"
)

// ParseView accepts a view name from the menu.
func ParseView(s string) (View, bool) {
	_, ok := titles[View(s)]
	return View(s), ok
}

// MenuItem is one entry of the view selector.
type MenuItem struct {
	View  View
	Title string
}

var titles = map[View]string{
	ViewPlayers:   "1. 스트리머별 종합 스탯",
	ViewMap:       "2. 맵별 스트리머 스탯",
	ViewAgents:    "3. 스트리머의 요원별 스탯",
	ViewMatch:     "4. 경기별 스트리머 스탯",
	ViewMaps:      "5. 스트리머의 맵별 스탯",
	ViewMapAgents: "6. 스트리머의 맵-요원별 스탯",
	ViewHistory:   "7. 스트리머의 모든 경기 확인",
	ViewTeams:     "8. 팀별 승률 및 상대전적",
}

// Title returns the menu title of a view.
func (v View) Title() string {
	return titles[v]
}

// Menu lists the views of a variant in selector order. The scrim menu opens
// on the teams view.
func Menu(v model.Variant) []MenuItem {
	var order []View
	if v == model.VariantScrim {
		order = []View{ViewTeams, ViewPlayers, ViewMap, ViewAgents, ViewMaps, ViewMapAgents, ViewMatch, ViewHistory}
	} else {
		order = []View{ViewPlayers, ViewMap, ViewAgents, ViewMatch, ViewMaps, ViewMapAgents, ViewHistory}
	}
	items := make([]MenuItem, len(order))
	for i, view := range order {
		items[i] = MenuItem{View: view, Title: view.Title()}
	}
	return items
}

// DefaultView is the first menu entry of a variant.
func DefaultView(v model.Variant) View {
	return Menu(v)[0].View
}

// Request selects a view and its pickers.
type Request struct {
	View   View
	Player string
	Map    string
	Match  int
}

// Page is everything a renderer needs for one view.
type Page struct {
	View  View
	Title string

	// Picker options and the values actually used.
	PlayerOptions []string
	MapOptions    []string
	MatchOptions  []model.MatchOption
	Player        string
	Map           string
	Match         model.MatchOption

	Stats []model.StatLine // grouped views
	Rows  []model.Record   // row views
	Teams *TeamReport      // teams view
}

// Kind reports which table a page carries.
func (p *Page) Kind() string {
	switch {
	case p.Teams != nil:
		return "teams"
	case p.View == ViewMatch || p.View == ViewHistory:
		return "rows"
	default:
		return "stats"
	}
}

// Render builds the page of req.View. Pickers that do not name an available
// option fall back to the first option.
func (s *Session) Render(req Request) (*Page, error) {
	if _, ok := titles[req.View]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, req.View)
	}
	page := &Page{View: req.View, Title: req.View.Title()}
	var err error
	switch req.View {
	case ViewPlayers:
		page.Stats, err = s.PlayerStats()
	case ViewMap:
		page.MapOptions = s.Maps(s.Rows)
		page.Map, page.Stats, err = s.MapPlayerStats(req.Map)
	case ViewAgents:
		page.PlayerOptions = s.Players()
		page.Player, page.Stats, err = s.AgentStats(req.Player)
	case ViewMatch:
		page.MatchOptions = s.Matches()
		page.Match, page.Rows, err = s.MatchRows(req.Match)
	case ViewMaps:
		page.PlayerOptions = s.Players()
		page.Player, page.Stats, err = s.PlayerMapStats(req.Player)
	case ViewMapAgents:
		page.PlayerOptions = s.Players()
		page.Player, page.Map, page.Stats, err = s.PlayerMapAgentStats(req.Player, req.Map)
		if err == nil {
			page.MapOptions = s.Maps(aggregator.OfPlayer(s.Rows, page.Player))
		}
	case ViewHistory:
		page.PlayerOptions = s.Players()
		page.Player, page.Rows, err = s.History(req.Player)
	case ViewTeams:
		page.Teams, err = s.Teams()
	}
	return page, err
}
