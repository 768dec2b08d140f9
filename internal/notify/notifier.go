// Package notify sends fire-and-forget HTTP notifications for session
// changes. The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/LISSConsulting/storefront/internal/session"
)

// Notifier posts plain-text HTTP notifications for selected session changes.
type Notifier struct {
	url          string
	title        string
	onLogin      bool
	onCartChange bool
	client       *resty.Client
	wg           sync.WaitGroup
}

// New creates a Notifier. title is sent as the X-Title header; if empty,
// "storefront" is used instead.
func New(notifURL, title string, onLogin, onCartChange bool) *Notifier {
	if title == "" {
		title = "storefront"
	}
	return &Notifier{
		url:          notifURL,
		title:        title,
		onLogin:      onLogin,
		onCartChange: onCartChange,
		client:       resty.New().SetTimeout(10 * time.Second),
	}
}

// Listener returns a session.Listener that fires asynchronous POSTs for
// changes matching the configured flags.
func (n *Notifier) Listener() session.Listener {
	return func(c session.Change) {
		msg, ok := n.message(c)
		if !ok {
			return
		}
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.post(msg)
		}()
	}
}

// Wait blocks until in-flight notifications finish. Short-lived commands
// call it before exiting.
func (n *Notifier) Wait() { n.wg.Wait() }

// message renders the notification text for c, reporting false when c
// should not notify.
func (n *Notifier) message(c session.Change) (string, bool) {
	switch a := c.Action.(type) {
	case session.SetUser:
		if !n.onLogin {
			return "", false
		}
		if a.User == nil {
			return signedOut(c.Prev.User)
		}
		return fmt.Sprintf("%s signed in", a.User.Name), true
	case session.Logout:
		if !n.onLogin {
			return "", false
		}
		return signedOut(c.Prev.User)
	case session.AddToCart, session.RemoveFromCart, session.UpdateQuantity:
		if !n.onCartChange || cartEqual(c.Prev.Cart, c.Next.Cart) {
			return "", false
		}
		return fmt.Sprintf("Cart: %d item(s), $%.2f", c.Next.Cart.ItemCount, c.Next.Cart.Total), true
	}
	return "", false
}

func signedOut(u *session.User) (string, bool) {
	if u == nil {
		return "", false
	}
	return fmt.Sprintf("%s signed out", u.Name), true
}

func cartEqual(a, b session.Cart) bool {
	if a.ItemCount != b.ItemCount || a.Total != b.Total || len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if a.Items[i] != b.Items[i] {
			return false
		}
	}
	return true
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt a dispatch.
func (n *Notifier) post(message string) {
	_, _ = n.client.R().
		SetHeader("Content-Type", "text/plain").
		SetHeader("X-Title", n.title).
		SetBody(message).
		Post(n.url)
}
