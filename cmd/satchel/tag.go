// Tag commands manage context tags.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/satchel/pkg/types"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage context tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a context tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := mustAttach("tag add")
		defer backend.Detach()

		name := types.NormalizeTagName(args[0])
		if err := types.ValidateTagName(name); err != nil {
			fmt.Fprintf(os.Stderr, "tag add: invalid tag name %q\n", args[0])
			os.Exit(exitUserError)
		}

		table := mustTable(backend, "tag add", types.TableTags)
		id, err := table.Set("", &types.Tag{Name: name})
		if err != nil {
			if isDuplicateName(err) {
				fmt.Fprintf(os.Stderr, "tag add: tag %q already exists\n", name)
				os.Exit(exitUserError)
			}
			fail(exitSysError, "tag add", err)
		}

		saved, err := table.Get(id)
		if err != nil {
			fail(exitSysError, "tag add", err)
		}

		if flagJSON {
			printJSON(saved)
			return nil
		}
		fmt.Printf("Created tag: @%s\n", name)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List context tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := mustAttach("tag list")
		defer backend.Detach()

		table := mustTable(backend, "tag list", types.TableTags)
		results, err := table.Fetch(types.Filter{})
		if err != nil {
			fail(exitSysError, "tag list", err)
		}

		if flagJSON {
			printJSON(results)
			return nil
		}

		for _, r := range results {
			tag := r.(*types.Tag)
			fmt.Printf("@%s\n", tag.Name)
		}
		return nil
	},
}

func init() {
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagListCmd)
}
