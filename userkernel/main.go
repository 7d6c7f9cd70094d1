// Command userkernel boots the user kernel and runs programs on it.
package main

import "github.com/sarchlab/userkernel/userkernel/cmd"

func main() {
	cmd.Execute()
}
