package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestContext_CacheControl(t *testing.T) {
	cacheable := "public, max-age=30, stale-while-revalidate=120"

	tests := []struct {
		name string
		ctx  RequestContext
		want string
	}{
		{"anonymous bounded request is cacheable", RequestContext{IsAnonymous: true, Page: 1, PageSize: 20}, cacheable},
		{"at the page boundary", RequestContext{IsAnonymous: true, Page: 10, PageSize: 48}, cacheable},
		{"authenticated never cacheable", RequestContext{IsAnonymous: false, Page: 1, PageSize: 20}, "no-store"},
		{"deep page not cacheable", RequestContext{IsAnonymous: true, Page: 11, PageSize: 20}, "no-store"},
		{"oversized page not cacheable", RequestContext{IsAnonymous: true, Page: 1, PageSize: 49}, "no-store"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ctx.CacheControl())
		})
	}
}
