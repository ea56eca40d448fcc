// Command ptfctl inspects, diffs and archives Pro Tools session files.
package main

func main() {
	execute()
}
