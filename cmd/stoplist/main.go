// Command stoplist manages the stop list of a restaurant menu.
package main

import "github.com/mesh-intelligence/stoplist/internal/cli"

func main() {
	cli.Execute()
}
