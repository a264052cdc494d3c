package dashboard

import (
	"context"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
)

func renderString(c templ.Component) (string, error) {
	return components.RenderString(context.Background(), c)
}
