// Command societyctl drives the society admin API from a terminal using the
// same rules as the web console.
package main

func main() {
	execute()
}
