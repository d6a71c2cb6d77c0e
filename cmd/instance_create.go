package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/presentation"
	"github.com/openauthor/embedview/internal/views"
)

var (
	createScreenKey string
	createParent    string
	createRect      string
	createName      string
)

var instanceCreateCmd = &cobra.Command{
	Use:   "instance:create <kind>",
	Short: "Create a new view instance on a screen",
	Args:  cobra.ExactArgs(1),
	Long: `Create a new instance of a template on a screen and populate it from
the template.

The parent defaults to the screen's first canvas. With --parent, the
instance is created inside the named canvas or group instead, so instances
can be nested in existing layout structure.

Without --rect the instance is centered on the parent at a default size.

Examples:
  # Create a navbar instance on the main screen
  embedview instance:create navbar --screen main

  # Create inside a named group
  embedview instance:create navbar --screen main --parent "header area"

  # Place it explicitly (left,top,right,bottom)
  embedview instance:create navbar --screen main --rect 0,0,800,80

  # Name the new group
  embedview instance:create navbar --screen main --name "top navbar"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		screen, entry, err := app.openScreenByKey(createScreenKey)
		if err != nil {
			return err
		}
		parent, err := resolveParent(app.host, screen, createParent)
		if err != nil {
			return fmt.Errorf("screen %q: %w", entry.Key, err)
		}

		opts := views.CreateOptions{Name: createName}
		if createRect != "" {
			rect, err := parseRect(createRect)
			if err != nil {
				return err
			}
			opts.Rect = &rect
		}

		inst, err := app.engine.CreateInstance(cmd.Context(), kind, parent, opts)
		if err != nil {
			return err
		}
		if _, err := app.saveScreens([]host.ScreenID{screen}); err != nil {
			return err
		}

		formatter := presentation.NewFormatter(os.Stdout)
		return formatter.FormatInstances([]presentation.InstanceDTO{{
			Container: string(inst),
			Kind:      kind,
			Screen:    entry.Name,
		}})
	},
}

func init() {
	instanceCreateCmd.Flags().StringVarP(&createScreenKey, "screen", "s", "", "Screen key to create the instance on (required)")
	instanceCreateCmd.Flags().StringVarP(&createParent, "parent", "p", "", "Canvas or group name to create inside (default: first canvas)")
	instanceCreateCmd.Flags().StringVarP(&createRect, "rect", "r", "", "Instance rect as left,top,right,bottom")
	instanceCreateCmd.Flags().StringVarP(&createName, "name", "n", "", "Name for the new instance group")
	_ = instanceCreateCmd.MarkFlagRequired("screen")
	rootCmd.AddCommand(instanceCreateCmd)
}

// resolveParent finds the container to create an instance in. An empty name
// selects the screen's first canvas. Otherwise the name is matched against
// the screen's canvases, background groups, and every group reachable under
// them, so instances can be created inside nested layout structure.
func resolveParent(h host.Host, screen host.ScreenID, name string) (host.ContainerID, error) {
	canvases, err := h.Canvases(screen)
	if err != nil {
		return "", err
	}
	if name == "" {
		if len(canvases) == 0 {
			return "", fmt.Errorf("screen has no canvas")
		}
		return canvases[0], nil
	}

	backgrounds, err := h.BackgroundGroups(screen)
	if err != nil {
		return "", err
	}
	queue := append(append([]host.ContainerID{}, backgrounds...), canvases...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		containerName, err := h.Name(id)
		if err != nil {
			return "", err
		}
		if containerName == name {
			return id, nil
		}
		children, err := h.Children(id)
		if err != nil {
			return "", err
		}
		for _, child := range children {
			if child.Type != host.NodeControl {
				queue = append(queue, child.Container)
			}
		}
	}
	return "", fmt.Errorf("no canvas or group named %q", name)
}

// parseRect parses "left,top,right,bottom" into a rect.
func parseRect(s string) (host.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return host.Rect{}, fmt.Errorf("rect must be left,top,right,bottom, got %q", s)
	}
	nums := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return host.Rect{}, fmt.Errorf("rect component %q is not an integer", part)
		}
		nums[i] = n
	}
	return host.NewRect(nums[0], nums[1], nums[2], nums[3]), nil
}
