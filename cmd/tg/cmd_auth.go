package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"timegrid/pkg/gcal"
)

func cmdAuth(args []string) int {
	flags := flag.NewFlagSet("auth", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return 1
	}

	credentials, token := credentialPaths()
	if err := gcal.Authorize(context.Background(), credentials, token); err != nil {
		fmt.Fprintf(os.Stderr, "tg: auth: %v\n", err)
		return 1
	}
	fmt.Println("authorized; token cached at", token)
	return 0
}
