// Command contentctl edits course content through a running API server.
//
//	contentctl login --username admin --password ...
//	export CONTENTCTL_TOKEN=...
//	contentctl course create --title "Hebrew 101"
//	contentctl section add hebrew-101 --title Intro --order 1
//	contentctl course show hebrew-101
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
