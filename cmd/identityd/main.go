// Command identityd serves the caller's verified identity over HTTP.
package main

func main() {
	Execute()
}
