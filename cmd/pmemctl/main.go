// Command pmemctl runs deep syncs against persistent-memory files and
// device DAX, and reports how they would be flushed.
package main

func main() {
	execute()
}
