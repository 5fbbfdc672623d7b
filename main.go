// Command triage scores and ranks task batches by urgency, importance,
// effort, and dependency position.
package main

import "github.com/papapumpkin/triage/cmd"

func main() {
	cmd.Execute()
}
