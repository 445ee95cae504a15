// voxtool is a CLI utility for inspecting, generating and converting voxel
// volumes and for running particle effects headlessly.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/voxelfx/internal/config"
	"github.com/Faultbox/voxelfx/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cmd, ok := commands[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	// Settings come from config.yaml when present; CLI flags are per command.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	logger.InitStderr(cfg.Logging.Level)
	defer logger.Sync()

	if err := cmd(cfg, args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`voxtool - voxel volume utility

Usage:
  voxtool <command> [options]

Commands:
  info <model>                       Show volume and mesh statistics
  gen [options] <output>             Generate a box or sphere volume
  glb [-scale s] <model> <out.glb>   Export the culled mesh as binary glTF
  particles [options] <model>        Run an effect and dump particles as CSV
  convert <input> <output>           Convert between .vxt and .vxz

Examples:
  voxtool info statue.vxz
  voxtool gen -shape sphere -size 32 -layers ball.vxt
  voxtool glb ball.vxt ball.glb
  voxtool particles -effect explode -ticks 30 -o out.csv ball.vxt
  voxtool convert ball.vxt ball.vxz`)
}
