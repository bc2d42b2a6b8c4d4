package view

import (
	"net/url"
	"strings"
	"sync"
)

type Screen string

const (
	ScreenLanding   Screen = "landing"
	ScreenSignUp    Screen = "sign-up"
	ScreenSignIn    Screen = "sign-in"
	ScreenProducts  Screen = "products"
	ScreenCheckout  Screen = "checkout"
	ScreenDashboard Screen = "dashboard"
)

var routes = map[string]Screen{
	"/":          ScreenLanding,
	"/sign-up":   ScreenSignUp,
	"/sign-in":   ScreenSignIn,
	"/products":  ScreenProducts,
	"/orders":    ScreenCheckout,
	"/Dashboard": ScreenDashboard,
}

type Route struct {
	Path   string
	Screen Screen
	Query  url.Values
}

// Resolve maps a location to its screen. Unknown paths land on "/".
func Resolve(location string) Route {
	path, rawQuery, _ := strings.Cut(location, "?")
	query, _ := url.ParseQuery(rawQuery)

	if path == "" {
		path = "/"
	}
	screen, ok := routes[path]
	if !ok {
		return Route{Path: "/", Screen: ScreenLanding, Query: url.Values{}}
	}
	return Route{Path: path, Screen: screen, Query: query}
}

// CheckoutPath is the checkout location for one product.
func CheckoutPath(productID string) string {
	return "/orders?" + url.Values{"productId": {productID}}.Encode()
}

// Router tracks the current location and tells listeners when it changes.
type Router struct {
	mu        sync.Mutex
	current   Route
	listeners []func(Route)
}

func NewRouter(start string) *Router {
	return &Router{current: Resolve(start)}
}

func (r *Router) Navigate(location string) {
	route := Resolve(location)

	r.mu.Lock()
	r.current = route
	listeners := append([]func(Route){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(route)
	}
}

func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) OnNavigate(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}
