// Command crmgate serves the CRM authentication and role management API.
package main

import (
	"fmt"
	"os"

	"github.com/aussiebroadwan/crmgate/internal/crm/app"
)

func main() {
	a, err := app.New(app.LoadConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "crmgate: init: %v\n", err)
		os.Exit(1)
	}
	if err := a.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "crmgate: %v\n", err)
		os.Exit(1)
	}
}
