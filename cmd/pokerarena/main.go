package main

import (
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Debug   bool   `help:"Enable debug logging"`
	NoColor bool   `name:"no-color" env:"NO_COLOR" help:"Disable coloured output"`
	EnvFile string `name:"env-file" default:".env" type:"path" help:"Load provider credentials from this dotenv file if it exists"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play one tournament in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run many headless tournaments and print statistics"`
	Serve    ServeCmd         `cmd:"" help:"Play a tournament while serving spectators over HTTP and WebSocket"`
	Odds     OddsCmd          `cmd:"" help:"Estimate hand equity with Monte-Carlo simulation"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerarena"),
		kong.Description("Autonomous No-Limit Texas Hold'em tournaments between AI agents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	// A missing file is fine; keys may come from the real environment
	_ = godotenv.Load(cli.EnvFile)

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
