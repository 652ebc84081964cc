// @title                       Movie App API
// @version                     1.0.0
// @description                 Movie catalog with user accounts and an admin surface.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "movieapp:", err)
		os.Exit(1)
	}
}
