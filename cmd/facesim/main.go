// Command facesim runs the eyes and mouth nodes in one process, drawing the
// three round displays in the terminal.
package main

func main() {
	Execute()
}
