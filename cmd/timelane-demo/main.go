// Command timelane-demo runs a demo workload of timelane lanes against the sinks named in its config
// and reads the stored records back.
package main

func main() {
	Execute()
}
