package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cli "github.com/spf13/pflag"

	"nova/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", "/tmp/nova.sock", "Control socket of nova --mode=daemon")
	timeout := cli.DurationP("timeout", "t", 2*time.Minute, "How long to wait for the answer")
	cli.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: nova-ctl [flags] trigger | hold | release | say <text...>")
		cli.PrintDefaults()
	}
	cli.Parse()

	req := ipc.Request{Cmd: ipc.CmdTrigger}
	switch args := cli.Args(); {
	case len(args) == 0 || args[0] == ipc.CmdTrigger:
	case len(args) == 1 && (args[0] == ipc.CmdHold || args[0] == ipc.CmdRelease):
		req = ipc.Request{Cmd: args[0]}
	case args[0] == ipc.CmdSay && len(args) > 1:
		req = ipc.Request{Cmd: ipc.CmdSay, Text: strings.Join(args[1:], " ")}
	default:
		cli.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := ipc.Send(ctx, *socket, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "nova:", err)
		os.Exit(1)
	}
	if resp.Text != "" {
		fmt.Println(resp.Text)
	}
}
