package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/storefront/internal/session"
	"github.com/LISSConsulting/storefront/internal/tui/panels"
)

// Options configures a Model.
type Options struct {
	Store *session.Store
	Cart  session.CartStore
	// Feed delivers store changes; nil disables live updates.
	Feed *Feed
	// CatalogDone is closed when the catalog fetch finishes. nil means the
	// catalog is already populated.
	CatalogDone <-chan struct{}
	Accent      string
	Mode        string // "local" or "remote"
}

// Model is the root bubbletea model for the storefront TUI.
type Model struct {
	ctx         context.Context
	store       *session.Store
	cart        session.CartStore
	feed        *Feed
	catalogDone <-chan struct{}

	// Sub-panels
	catalogPanel panels.CatalogPanel
	cartPanel    panels.CartPanel
	signIn       panels.SignInForm
	signingIn    bool

	// Layout and focus
	layout Layout
	focus  FocusTarget
	theme  Theme
	width  int
	height int

	// Session view
	catalogState CatalogState
	user         *session.User
	mode         string

	// Cart calls are numbered; results older than the last applied one are dropped.
	cartSeq    int
	appliedSeq int

	status  string
	isError bool
	now     time.Time
}

// New creates the storefront Model. The initial catalog, user and cart are
// read from opts.Store.
func New(ctx context.Context, opts Options) Model {
	th := NewTheme(opts.Accent)
	layout := Calculate(80, 24)
	state := opts.Store.State()

	catalogState := CatalogLoading
	if opts.CatalogDone == nil {
		catalogState = catalogStateFor(state.Catalog)
	}

	catW, catH := innerDims(layout.Catalog)
	cartW, cartH := innerDims(layout.Cart)

	return Model{
		ctx:          ctx,
		store:        opts.Store,
		cart:         opts.Cart,
		feed:         opts.Feed,
		catalogDone:  opts.CatalogDone,
		catalogPanel: panels.NewCatalogPanel(state.Catalog, catalogState == CatalogLoading, catW, catH),
		cartPanel:    panels.NewCartPanel(state.Cart, cartW, cartH),
		signIn:       panels.NewSignInForm(th.Accent(), layout.Catalog.Width+layout.Cart.Width, layout.Catalog.Height),
		layout:       layout,
		focus:        FocusCatalog,
		theme:        th,
		width:        80,
		height:       24,
		catalogState: catalogState,
		user:         state.User,
		mode:         opts.Mode,
		cartSeq:      initialCartSeq,
		now:          time.Now(),
	}
}

// initialCartSeq numbers the cart refresh issued by Init.
const initialCartSeq = 1

func catalogStateFor(products []session.Product) CatalogState {
	if len(products) == 0 {
		return CatalogEmpty
	}
	return CatalogReady
}

// Init starts the change feed, the catalog watcher, the clock and an initial
// cart refresh.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.feed != nil {
		cmds = append(cmds, waitForChange(m.feed))
	}
	if m.catalogDone != nil {
		cmds = append(cmds, waitForCatalog(m.catalogDone))
	}
	cmds = append(cmds, runCart(m.ctx, initialCartSeq, "", m.cart.Cart))
	return tea.Batch(cmds...)
}

// tickCmd schedules the next one-second clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks on the feed and returns the next batch of changes.
func waitForChange(f *Feed) tea.Cmd {
	return func() tea.Msg {
		batch, ok := f.Next()
		if !ok {
			return feedClosedMsg{}
		}
		return changesMsg(batch)
	}
}

// waitForCatalog blocks until the catalog fetch has finished.
func waitForCatalog(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return catalogDoneMsg{}
	}
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case changesMsg:
		return m.handleChanges(msg)
	case feedClosedMsg:
		return m, nil
	case catalogDoneMsg:
		return m.handleCatalogDone()
	case cartMsg:
		return m.handleCart(msg)
	case panels.AddRequestMsg:
		p := msg.Product
		return m.cartCmd("Added "+p.Title, func(ctx context.Context) (session.Cart, error) {
			return m.cart.Add(ctx, p)
		})
	case panels.QuantityRequestMsg:
		id := msg.ID
		if msg.Delta > 0 {
			return m.cartCmd("", func(ctx context.Context) (session.Cart, error) {
				return session.Increment(ctx, m.cart, id)
			})
		}
		return m.cartCmd("", func(ctx context.Context) (session.Cart, error) {
			return session.Decrement(ctx, m.cart, id)
		})
	case panels.RemoveRequestMsg:
		id := msg.ID
		return m.cartCmd("Removed item", func(ctx context.Context) (session.Cart, error) {
			return m.cart.Remove(ctx, id)
		})
	case panels.SignInRequestMsg:
		return m.handleSignIn(msg)
	case panels.SignInCancelledMsg:
		m.signingIn = false
		return m, nil
	}
	if m.signingIn {
		var cmd tea.Cmd
		m.signIn, cmd = m.signIn.Update(msg)
		return m, cmd
	}
	return m.delegateToFocused(msg)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	if !m.layout.TooSmall {
		catW, catH := innerDims(m.layout.Catalog)
		cartW, cartH := innerDims(m.layout.Cart)
		m.catalogPanel = m.catalogPanel.SetSize(catW, catH)
		m.cartPanel = m.cartPanel.SetSize(cartW, cartH)
		m.signIn = m.signIn.SetSize(msg.Width, m.layout.Catalog.Height)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.signingIn {
		var cmd tea.Cmd
		m.signIn, cmd = m.signIn.Update(msg)
		return m, cmd
	}
	if !IsGlobalKey(msg.String()) {
		return m.delegateToFocused(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.focus = m.focus.Next()
		return m, nil
	case "shift+tab":
		m.focus = m.focus.Prev()
		return m, nil
	case "1":
		m.focus = FocusCatalog
		return m, nil
	case "2":
		m.focus = FocusCart
		return m, nil
	case "L":
		if m.user != nil {
			name := m.user.Name
			m.store.Dispatch(session.Logout{})
			m.user = nil
			m.setStatus("Signed out "+name, false)
			return m, nil
		}
		var cmd tea.Cmd
		m.signIn, cmd = m.signIn.Open()
		m.signingIn = true
		return m, cmd
	case "C":
		return m.cartCmd("Cart cleared", m.cart.Clear)
	case "r":
		return m.cartCmd("Cart refreshed", m.cart.Cart)
	}
	return m, nil
}

func (m Model) delegateToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusCatalog:
		m.catalogPanel, cmd = m.catalogPanel.Update(msg)
	case FocusCart:
		m.cartPanel, cmd = m.cartPanel.Update(msg)
	}
	return m, cmd
}

// cartCmd runs fn against the cart store off the update loop. status is
// shown when the call succeeds; empty leaves the status line alone.
func (m Model) cartCmd(status string, fn func(context.Context) (session.Cart, error)) (Model, tea.Cmd) {
	m.cartSeq++
	return m, runCart(m.ctx, m.cartSeq, status, fn)
}

func runCart(ctx context.Context, seq int, status string, fn func(context.Context) (session.Cart, error)) tea.Cmd {
	return func() tea.Msg {
		cart, err := fn(ctx)
		return cartMsg{seq: seq, status: status, cart: cart, err: err}
	}
}

func (m Model) handleCart(msg cartMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(msg.err.Error(), true)
		return m, nil
	}
	if msg.seq < m.appliedSeq {
		return m, nil
	}
	m.appliedSeq = msg.seq
	m.cartPanel = m.cartPanel.SetCart(msg.cart)
	if msg.status != "" {
		m.setStatus(msg.status, false)
	}
	return m, nil
}

func (m Model) handleChanges(batch changesMsg) (tea.Model, tea.Cmd) {
	for _, c := range batch {
		switch c.Action.Kind() {
		case session.KindSetCatalog:
			m.catalogPanel = m.catalogPanel.SetProducts(c.Next.Catalog)
			m.catalogState = catalogStateFor(c.Next.Catalog)
		case session.KindSetUser, session.KindLogout:
			m.user = c.Next.User
		case session.KindAddToCart, session.KindRemoveFromCart, session.KindUpdateQuantity:
			m.cartPanel = m.cartPanel.SetCart(c.Next.Cart)
		}
	}
	if m.feed == nil {
		return m, nil
	}
	return m, waitForChange(m.feed)
}

func (m Model) handleCatalogDone() (tea.Model, tea.Cmd) {
	products := m.store.State().Catalog
	m.catalogPanel = m.catalogPanel.SetProducts(products).SetLoading(false)
	m.catalogState = catalogStateFor(products)
	if m.catalogState == CatalogEmpty {
		m.setStatus("No products available", true)
	}
	return m, nil
}

func (m Model) handleSignIn(msg panels.SignInRequestMsg) (tea.Model, tea.Cmd) {
	u, err := session.NewUser(msg.Email, msg.Name)
	if err != nil {
		m.signIn = m.signIn.SetError(err.Error())
		return m, nil
	}
	m.store.Dispatch(session.SetUser{User: u})
	m.user = u
	m.signingIn = false
	m.setStatus("Signed in as "+u.Name, false)
	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.isError = isErr
}

// View renders the full TUI.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least 80x20.", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	cart := m.cartPanel.Cart()
	props := panels.HeaderProps{
		ItemCount:   cart.ItemCount,
		Total:       cart.Total,
		Mode:        m.mode,
		StateSymbol: m.catalogState.Symbol(),
		StateLabel:  m.catalogState.Label(m.catalogPanel.Len()),
		Clock:       m.now,
	}
	if m.user != nil {
		props.UserName = m.user.Name
		props.Email = m.user.Email
	}
	header := panels.RenderHeader(props, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	focus := m.focus.String()
	if m.signingIn {
		focus = "sign in"
	}
	status := m.status
	if status != "" {
		status = m.theme.StatusStyle(m.isError).Render(status)
	}
	footer := panels.RenderFooter(panels.FooterProps{
		Focus:    focus,
		Status:   status,
		SignedIn: m.user != nil,
	}, m.layout.Footer.Width)

	var body string
	if m.signingIn {
		body = m.signIn.View()
	} else {
		catW, catH := innerDims(m.layout.Catalog)
		cartW, cartH := innerDims(m.layout.Cart)
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.theme.PanelBorderStyle(m.focus == FocusCatalog).
				Width(catW).Height(catH).
				Render(m.catalogPanel.View()),
			m.theme.PanelBorderStyle(m.focus == FocusCart).
				Width(cartW).Height(cartH).
				Render(m.cartPanel.View()),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// innerDims returns the content dimensions for a panel rect accounting for
// the 1-character border on each side (2 total per dimension).
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}
