// Package router assembles httprouter routes from route tables.
package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// WithRoutes adds routes to the router being built.
func WithRoutes(routes ...Route) ConfigRouter {
	return func(router *Router) {
		router.AddRoutes(routes...)
	}
}

// Route binds a handler to a method and path. Middlewares wrap only this
// route, the first one outermost.
type Route struct {
	Handler     http.Handler
	Path        string
	Method      string
	Middlewares []func(http.Handler) http.Handler
}

// Router is an http.Handler backed by httprouter.
type Router struct {
	router *httprouter.Router
}

// ConfigRouter configures a Router.
type ConfigRouter func(router *Router)

// New builds a router from configs.
func New(configs ...ConfigRouter) Router {
	router := &Router{
		router: httprouter.New(),
	}

	for _, config := range configs {
		config(router)
	}

	return *router
}

// NotFound sets the handler used when no route matches.
func NotFound(handler http.Handler) ConfigRouter {
	return func(router *Router) {
		router.router.NotFound = handler
	}
}

// MethodNotAllowed sets the handler used when the path matches but the
// method does not.
func MethodNotAllowed(handler http.Handler) ConfigRouter {
	return func(router *Router) {
		router.router.MethodNotAllowed = handler
	}
}

func (r Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// AddRoutes registers routes with their own middlewares.
func (r Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		handler := route.Handler

		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}

		r.router.Handler(route.Method, route.Path, handler)
	}
}
