package api

import (
	"sort"
	"strings"
)

// BaseURLResolver picks the service base URL an endpoint path is sent to.
type BaseURLResolver interface {
	ResolveBaseURL(endpoint string) string
}

// Route binds a path prefix to the base URL of the service that owns it.
type Route struct {
	Prefix  string
	BaseURL string
}

// RouteTable resolves endpoints by longest matching prefix, falling back to DefaultURL.
type RouteTable struct {
	DefaultURL string
	routes     []Route
}

// NewRouteTable creates a RouteTable. Empty base URLs are ignored.
func NewRouteTable(defaultURL string, routes ...Route) *RouteTable {
	rt := &RouteTable{DefaultURL: strings.TrimRight(defaultURL, "/")}
	for _, r := range routes {
		if r.BaseURL == "" {
			continue
		}
		rt.routes = append(rt.routes, Route{Prefix: r.Prefix, BaseURL: strings.TrimRight(r.BaseURL, "/")})
	}
	sort.SliceStable(rt.routes, func(i, j int) bool {
		return len(rt.routes[i].Prefix) > len(rt.routes[j].Prefix)
	})
	return rt
}

func (rt *RouteTable) ResolveBaseURL(endpoint string) string {
	for _, r := range rt.routes {
		if strings.HasPrefix(endpoint, r.Prefix) {
			return r.BaseURL
		}
	}
	return rt.DefaultURL
}
