package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formcore/pkg/expression"
	"github.com/vango-dev/formcore/pkg/schema"
)

func inspectCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON  bool
		locales bool
		find    string
	)

	cmd := &cobra.Command{
		Use:   "inspect <form>",
		Short: "Print the object tree of a form",
		Long: `Load a form definition and print its object tree with the stored
property values of every object.

Examples:
  formcore inspect survey.json
  formcore inspect survey.yaml --json
  formcore inspect survey.json --locales
  formcore inspect survey.json --find age`,
		Args: cobra.ExactArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			root, err := loadForm(e.registry, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := e.registry.Marshal(root)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			if find != "" {
				var hits int
				root.Walk(func(o *schema.Object) {
					for _, r := range o.SearchText(find) {
						info(cmd, "%s %s: %q", describe(r.Element), r.Name, r.Str.Text())
						hits++
					}
				})
				success(cmd, "%d matches", hits)
				return nil
			}
			printTree(cmd, root)
			if locales {
				var used []string
				root.Walk(func(o *schema.Object) {
					used = o.AddUsedLocales(used)
				})
				sort.Strings(used)
				info(cmd, "locales: %s", strings.Join(used, ", "))
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the serialized form instead of the tree")
	cmd.Flags().BoolVar(&locales, "locales", false, "List the locales used by localized texts")
	cmd.Flags().StringVar(&find, "find", "", "List the localized texts containing this text")

	return cmd
}

func printTree(cmd *cobra.Command, root *schema.Object) {
	depth := map[*schema.Object]int{}
	root.Walk(func(o *schema.Object) {
		d := 0
		if p := o.Parent(); p != nil {
			d = depth[p] + 1
		}
		depth[o] = d

		var props []string
		o.IteratePropertiesHash(func(name string, value any) {
			if name == "name" || value == nil {
				return
			}
			if p := o.Registry().FindSchemaProperty(o.GetType(), name); p != nil && p.Type() == schema.TypeArray {
				return
			}
			props = append(props, name+"="+formatValue(value))
		})
		for _, name := range sortedLocalizable(o) {
			if text := o.GetLocalizableStringText(name, ""); text != "" {
				props = append(props, name+"="+formatValue(text))
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s  %s\n", strings.Repeat("  ", d), describe(o.AsBase()), strings.Join(props, " "))
	})
}

func sortedLocalizable(o *schema.Object) []string {
	var names []string
	for _, p := range o.Registry().SchemaProperties(o.GetType()) {
		if p.Type() == schema.TypeLocalizable {
			names = append(names, p.Name())
		}
	}
	return names
}

func setCmd(opts *rootOptions) *cobra.Command {
	var (
		values     []string
		locale     string
		designMode bool
		printForm  bool
	)

	cmd := &cobra.Command{
		Use:   "set <form> [object.property=value ...]",
		Short: "Apply property writes and answer values, then print the change log",
		Long: `Load a form definition, attach it to a session, apply answer values
and property writes in order, and print every property change they
caused, including condition results and sequence diffs.

Values are decoded as JSON when possible and used as plain strings
otherwise. An assignment without an object name targets the survey.

Examples:
  formcore set survey.json --value age=17
  formcore set survey.json age.title=Years 'color.choices=["red","blue"]'
  formcore set survey.json --locale de --print`,
		Args: cobra.MinimumNArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			root, err := loadForm(e.registry, args[0])
			if err != nil {
				return err
			}
			if locale == "" {
				locale = e.cfg.Settings.Locale
			}
			s := newSession(root, locale, designMode || e.cfg.Settings.DesignMode)

			for _, v := range values {
				a, err := parseAssignment(v)
				if err != nil {
					return err
				}
				name := a.property
				if a.object != "" {
					name = a.object + "." + a.property
				}
				e.logger.Debug("setting value", "name", name)
				s.SetValue(name, a.value)
			}
			for _, arg := range args[1:] {
				a, err := parseAssignment(arg)
				if err != nil {
					return err
				}
				e.logger.Debug("writing property", "object", a.object, "property", a.property)
				if err := s.apply(a); err != nil {
					return err
				}
			}

			for _, c := range s.changes {
				info(cmd, "%s", c)
			}
			success(cmd, "%d changes", len(s.changes))

			if printForm {
				data, err := e.registry.Marshal(root)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&values, "value", nil, "Answer value name=value (repeatable)")
	cmd.Flags().StringVar(&locale, "locale", "", "Session locale (default from config or the form)")
	cmd.Flags().BoolVar(&designMode, "design", false, "Design mode: conditions do not run")
	cmd.Flags().BoolVar(&printForm, "print", false, "Print the resulting form as JSON")

	return cmd
}

func evalCmd(opts *rootOptions) *cobra.Command {
	var showLua bool

	cmd := &cobra.Command{
		Use:   "eval <expression> [name=value ...]",
		Short: "Evaluate a condition expression",
		Long: `Evaluate a condition expression against the given values.

Examples:
  formcore eval "{age} >= 18" age=20
  formcore eval "{tags} anyof ['a', 'b']" 'tags=["b"]'
  formcore eval "{age} >= 18" --lua`,
		Args: cobra.MinimumNArgs(1),
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			out := cmd.OutOrStdout()
			if showLua {
				chunk, err := expression.Translate(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, chunk)
				return nil
			}
			values := make(map[string]any)
			for _, arg := range args[1:] {
				a, err := parseAssignment(arg)
				if err != nil {
					return err
				}
				name := a.property
				if a.object != "" {
					name = a.object + "." + a.property
				}
				values[name] = a.value
			}
			res, err := expression.Evaluate(args[0], values)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatValue(res))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&showLua, "lua", false, "Print the translated Lua chunk instead of evaluating")

	return cmd
}

func classesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the registered form classes and their properties",
		Args:  cobra.NoArgs,
		RunE: withEnv(opts, func(cmd *cobra.Command, e *env, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range e.registry.ClassNames() {
				c := e.registry.FindClass(name)
				header := name
				if c.Parent != "" {
					header += " : " + c.Parent
				}
				fmt.Fprintln(out, header)
				for _, p := range c.Properties() {
					decl := p.Name() + ":" + p.Type()
					if p.ClassName() != "" {
						decl += ":" + p.ClassName()
					}
					fmt.Fprintf(out, "  %s\n", decl)
				}
			}
			return nil
		}),
	}
}
