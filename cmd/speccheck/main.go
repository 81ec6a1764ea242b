// speccheck audits React component workspaces: it classifies each
// component's imports into tiers and checks the source against its spec
// document.
package main

import "speccheck/cmd"

func main() {
	cmd.Execute()
}
