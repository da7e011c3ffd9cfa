// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles the session lifecycle
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "confirm",
						Usage:    "Password confirmation",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "first-name",
						Usage: "First name",
					},
					&cli.StringFlag{
						Name:  "last-name",
						Usage: "Last name",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and clear stored tokens",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in user",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.AuthWhoami,
			},
			{
				Name:  "reset-password",
				Usage: "Request a password reset email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
				},
				Action: r.AuthResetPassword,
			},
		},
	}
}

// browseCommand handles catalog browsing
func browseCommand(r *Runner) *cli.Command {
	listFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "cached",
			Usage: "Read from the local catalog cache instead of the API",
		},
	}

	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"b"},
		Usage:   "Browse the catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog titles",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Filter by kind (movie or tv-series)",
					},
					&cli.IntFlag{
						Name:  "category",
						Usage: "Filter by category ID",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of titles to return",
						Value: 50,
					},
				}, listFlags...),
				Action: r.BrowseList,
			},
			{
				Name:  "show",
				Usage: "Show a single title with its comments",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.BrowseShow,
			},
			{
				Name:   "featured",
				Usage:  "List featured titles",
				Flags:  listFlags,
				Action: r.BrowseFeatured,
			},
			{
				Name:   "trending",
				Usage:  "List trending titles",
				Flags:  listFlags,
				Action: r.BrowseTrending,
			},
			{
				Name:   "recommended",
				Usage:  "List titles recommended for you",
				Flags:  listFlags,
				Action: r.BrowseRecommended,
			},
			{
				Name:    "new",
				Aliases: []string{"new-releases"},
				Usage:   "List new releases",
				Flags:   listFlags,
				Action:  r.BrowseNewReleases,
			},
			{
				Name:  "categories",
				Usage: "List categories",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "featured",
						Usage: "Only featured categories",
					},
				}, listFlags...),
				Action: r.BrowseCategories,
			},
			{
				Name:  "watch",
				Usage: "Open a title's stream in the browser",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Action: r.BrowseWatch,
			},
		},
	}
}

// searchCommand queries the catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// watchlistCommand manages the user's watchlist
func watchlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watchlist",
		Aliases: []string{"wl"},
		Usage:   "Manage your watchlist",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Show watchlist entries",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.WatchlistList,
			},
			{
				Name:  "add",
				Usage: "Add a title to the watchlist",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Action: r.WatchlistAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a title from the watchlist",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Action: r.WatchlistRemove,
			},
			{
				Name:   "export",
				Usage:  "Export the watchlist to local files",
				Flags:  exportFlags(),
				Action: r.WatchlistExport,
			},
		},
	}
}

// libraryCommand reads the user's owned and rented titles
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Your purchased and rented titles",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Show library entries",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.LibraryList,
			},
			{
				Name:   "export",
				Usage:  "Export the library to local files",
				Flags:  exportFlags(),
				Action: r.LibraryExport,
			},
		},
	}
}

// storeCommand handles purchases and rentals
func storeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Buy and rent titles",
		Commands: []*cli.Command{
			{
				Name:  "buy",
				Usage: "Purchase a title",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Action: r.StoreBuy,
			},
			{
				Name:  "rent",
				Usage: "Rent a title",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Action: r.StoreRent,
			},
			{
				Name:   "purchases",
				Usage:  "List past purchases",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.StorePurchases,
			},
			{
				Name:   "rentals",
				Usage:  "List past rentals",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.StoreRentals,
			},
		},
	}
}

// profileCommand manages the user profile, ratings and comments
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage your profile",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show profile details",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Usage: "First name"},
					&cli.StringFlag{Name: "last-name", Usage: "Last name"},
					&cli.StringFlag{Name: "bio", Usage: "Profile bio"},
				},
				Action: r.ProfileUpdate,
			},
			{
				Name:  "passwd",
				Usage: "Change the account password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "current",
						Usage:    "Current password",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "new",
						Usage:    "New password",
						Required: true,
					},
				},
				Action: r.ProfilePasswd,
			},
			{
				Name:  "rate",
				Usage: "Rate a title from 1 to 5",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "score",
						Usage:    "Rating score (1-5)",
						Required: true,
					},
				},
				Action: r.ProfileRate,
			},
			{
				Name:  "comment",
				Usage: "Comment on a title",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "body",
						Aliases:  []string{"m"},
						Usage:    "Comment text",
						Required: true,
					},
				},
				Action: r.ProfileComment,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the local cache.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the local catalog cache and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "sync",
				Usage: "Refresh the local catalog cache from the API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupSync,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive TUI",
		Action:  r.TUI,
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (csv, markdown, txt)",
			Value:   "csv",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output directory",
		},
		&cli.BoolFlag{
			Name:  "details",
			Usage: "Re-fetch each entry's full record before writing",
		},
	}
}
