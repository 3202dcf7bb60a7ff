// Command manage runs administrative tasks against the configured database.
package main

func main() {
	Execute()
}
