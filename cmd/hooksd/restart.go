package main

func runRestart(args []string) int {
	if code := runStop(nil); code != exitOK {
		return code
	}
	return runStart(args)
}
