package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/haryoiro/tunepanel/internal/logger"
	"github.com/haryoiro/tunepanel/internal/player"
	"github.com/haryoiro/tunepanel/internal/systems"
	"github.com/haryoiro/tunepanel/internal/termcap"
	"github.com/haryoiro/tunepanel/internal/version"
	"github.com/haryoiro/tunepanel/pkg/templ"
	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		width   int
		noColor bool
		sets    []string
	)

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Print the panel once and exit",
		Example: `  tunepanel render song.mod --width 60
  tunepanel render --no-color --set title=Enigma --set isong=2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseSets(sets)
			if err != nil {
				return err
			}

			p, err := a.buildPanel(os.Stdout)
			if err != nil {
				return err
			}
			w := a.width(width, os.Stdout)
			if err := p.CheckWidth(w); err != nil {
				return err
			}

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			sys := systems.New(a.cfg, db)
			defer sys.Stop()
			sys.Load(absPaths(args))
			sys.Wait()

			md := sys.Session.Metadata()
			for k, v := range overrides {
				md[k] = v
			}

			colorEnabled := !noColor && termcap.ColorEnabled(a.cfg.Panel.Color, os.Stdout)
			frame := p.Render(md, w, colorEnabled)
			for _, warning := range frame.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}
			fmt.Fprintln(cmd.OutOrStdout(), frame.String())
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "panel width in columns (default: panel.width or the terminal width)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a metadata field, as name=value")
	return cmd
}

// parseSets turns name=value pairs into metadata. Numeric values become
// numbers so they format like the live values.
func parseSets(sets []string) (templ.Metadata, error) {
	md := templ.Metadata{}
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, want name=value", s)
		}
		if n, err := strconv.Atoi(value); err == nil {
			md[name] = templ.Int(n)
		} else if f, err := strconv.ParseFloat(value, 64); err == nil {
			md[name] = templ.Number(f)
		} else {
			md[name] = templ.Text(value)
		}
	}
	return md, nil
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		width  int
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse the panel template and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.buildPanel(os.Stdout)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, warning := range p.ParseWarnings() {
				fmt.Fprintf(out, "warning: %s\n", warning)
			}

			w := a.width(width, os.Stdout)
			if strict || a.cfg.Panel.StrictWidth {
				if err := p.Template().ValidateWidth(w); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "template ok: %d lines, width %d\n", p.Template().Len(), w)
			fmt.Fprintf(out, "aliases: %s\n", strings.Join(p.Template().Registry().Names(), ", "))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "width to validate against")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on lines that cannot match the width")
	return cmd
}

func newTagCmd(a *app) *cobra.Command {
	var (
		title    string
		composer string
		game     string
		clear    bool
	)

	cmd := &cobra.Command{
		Use:   "tag FILE",
		Short: "Store a title and composer for a file in the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := absPaths(args)[0]

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			if clear {
				if err := db.Remove(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "cleared %s\n", path)
				return nil
			}

			if _, err := os.Stat(path); err != nil {
				return err
			}
			sys := systems.New(a.cfg, db)
			song, err := sys.Resolve(cmd.Context(), path)
			if err != nil {
				logger.Warn("Tagging %s without probe data: %v", path, err)
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				song.Title = title
			}
			if flags.Changed("composer") {
				song.Composer = composer
			}
			if flags.Changed("game") {
				song.Game = game
			}
			if err := db.Put(song); err != nil {
				return err
			}
			if !player.CanDecode(path) {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: the length of %s files is not known\n", song.Format)
			}

			fmt.Fprintln(out, templ.FullSongName(templ.Metadata{
				"title":     templ.Text(song.Title),
				"composer":  templ.Text(song.Composer),
				"file_name": templ.Text(filepath.Base(song.Path)),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "song title")
	cmd.Flags().StringVar(&composer, "composer", "", "song composer")
	cmd.Flags().StringVar(&game, "game", "", "game or album the song belongs to")
	cmd.Flags().BoolVar(&clear, "clear", false, "remove the cached entry instead")
	return cmd
}

func newFilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "Show file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "# tunepanel file locations:")
			fmt.Fprintf(out, "  Config:   %s\n", a.dirs.ConfigFile())
			fmt.Fprintf(out, "  Template: %s\n", a.dirs.TemplateFile())
			fmt.Fprintf(out, "  Database: %s\n", a.dirs.DatabaseFile())
			fmt.Fprintf(out, "  Logs:     %s\n", a.dirs.LogFile())
			fmt.Fprintf(out, "  Cache:    %s\n", a.dirs.Cache)
			fmt.Fprintf(out, "%d songs cached\n", len(db.All()))
			return nil
		},
	}
}

func newClearCacheCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Delete the song cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintln(out, "This deletes the song cache and play counts.")
				fmt.Fprint(out, "Are you sure you want to continue? (y/N): ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.TrimSpace(answer)
				if answer != "y" && answer != "Y" {
					fmt.Fprintln(out, "Cache clearing cancelled.")
					return nil
				}
			}

			db := a.dirs.DatabaseFile()
			targets := []string{db, db + "-wal", db + "-shm", a.dirs.Cache}
			var errs []error
			for _, target := range targets {
				if err := os.RemoveAll(target); err != nil {
					errs = append(errs, err)
					continue
				}
				logger.Info("Removed %s", target)
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}
			fmt.Fprintln(out, "Cache cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

func absPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out[i] = p
	}
	return out
}
