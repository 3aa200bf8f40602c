// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

// listCommand pages through routines
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List routines, one page at a time",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Only routines whose name contains this text",
			},
			&cli.StringFlag{
				Name:    "day",
				Aliases: []string{"d"},
				Usage:   "Only routines with exercises on this day (Lunes..Domingo)",
			},
			&cli.IntFlag{
				Name:    "page",
				Aliases: []string{"p"},
				Usage:   "Page number",
				Value:   1,
			},
			jsonFlag(),
		},
		Action: r.List,
	}
}

// searchCommand searches routines by name
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search routines by name",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "name",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "day",
				Aliases: []string{"d"},
				Usage:   "Only routines with exercises on this day",
			},
			jsonFlag(),
		},
		Action: r.Search,
	}
}

// showCommand prints one routine as a weekly calendar
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show a routine as a weekly calendar",
		Arguments: []cli.Argument{
			&cli.IntArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			jsonFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Render locally as md, txt, csv or json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the rendered routine into this directory instead of stdout",
			},
		},
		Action: r.Show,
	}
}

// createCommand creates a routine from a TOML file
func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a routine from a TOML file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Routine TOML file",
				Required: true,
			},
		},
		Action: r.Create,
	}
}

// editCommand replaces a routine with the contents of a TOML file
func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Update a routine from a TOML file",
		Arguments: []cli.Argument{
			&cli.IntArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Routine TOML file",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "Write the current routine to --file instead of submitting it",
			},
		},
		Action: r.Edit,
	}
}

// deleteCommand removes a routine
func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Aliases: []string{"rm"},
		Usage:   "Delete a routine",
		Arguments: []cli.Argument{
			&cli.IntArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: r.Delete,
	}
}

// duplicateCommand copies a routine on the server
func duplicateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "duplicate",
		Aliases: []string{"dup"},
		Usage:   "Duplicate a routine",
		Arguments: []cli.Argument{
			&cli.IntArg{
				Name: "id",
			},
		},
		Action: r.Duplicate,
	}
}

// exportCommand downloads the server-side export
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Download every routine as CSV or PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "csv or pdf",
				Value: "csv",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Download directory (default: export.dir from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the file with the system viewer",
			},
		},
		Action: r.Export,
	}
}

// statsCommand prints aggregate statistics
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show routine statistics",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Stats,
	}
}

// backupCommand snapshots every routine to disk
func backupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Write every routine to local files and record the run",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Output directory (default: rutinas_backup_{epoch})",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "json, csv, md or txt (default: backup.format from config)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent fetches (default: backup.workers from config)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Requests per second (default: backup.rate_limit from config)",
			},
		},
		Action: r.Backup,
	}
}

// historyCommand lists recorded backups
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded backup runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 10,
			},
			&cli.StringFlag{
				Name:  "run",
				Usage: "Show the routines written by one run",
			},
			&cli.IntFlag{
				Name:  "routine",
				Usage: "Show every snapshot of one routine",
			},
			jsonFlag(),
		},
		Action: r.History,
	}
}

// setupCommand creates local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize local configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the history database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the routines backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand launches the interactive interface
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse and edit routines interactively",
		Action: r.TUI,
	}
}
