package main

import (
	"parlwatch-backend/cmd/parlwatch/commands"
	"parlwatch-backend/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
