package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
)

func clientCmd(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[needsSession] = "true"
	return cmd
}

func newBoardCmd() *cobra.Command {
	var (
		status string
		width  int
	)
	cmd := &cobra.Command{
		Use:     "board",
		Aliases: []string{"ls"},
		Short:   "Show the board",
		Example: `  jobboard board
  jobboard board --status interviewing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.Status
			if status != "" {
				s, err := domain.ParseStatus(status)
				if err != nil {
					return err
				}
				filter = s
			}

			s := sessionFrom(cmd.Context())
			_, cancel, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()

			cols := s.tracker.Columns()
			out := cmd.OutOrStdout()
			if filter != "" {
				fmt.Fprint(out, renderColumn(filter, cols[filter], s.tracker.Pending))
				return nil
			}
			fmt.Fprintln(out, renderBoard(cols, s.tracker.Pending, width))
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only list one column")
	cmd.Flags().IntVar(&width, "width", defaultCardWidth, "card width in columns")
	return clientCmd(cmd)
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd.Context())
			_, cancel, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()

			id, err := s.resolveID(args[0])
			if err != nil {
				return err
			}
			rec, _ := s.tracker.Get(id)
			fmt.Fprint(cmd.OutOrStdout(), renderApplication(rec))
			return nil
		},
	}
	return clientCmd(cmd)
}

// fieldFlags are the editable application fields shared by add and edit.
type fieldFlags struct {
	company, role, status, jobType, currency string
	location, link, benefits, notes          string
	salary                                   float64
	clearSalary                              bool
}

func (f *fieldFlags) register(cmd *cobra.Command, withClear bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.company, "company", "", "company name")
	fs.StringVar(&f.role, "role", "", "role or job title")
	fs.StringVar(&f.status, "status", "", "column: wishlist, applied, interviewing, offer, rejected, ghosting")
	fs.StringVar(&f.jobType, "type", "", "job type: internship, full-time, contract")
	fs.Float64Var(&f.salary, "salary", 0, "expected or offered salary")
	fs.StringVar(&f.currency, "currency", "", "salary currency: RM, USD, SGD")
	fs.StringVar(&f.location, "location", "", "office location or remote")
	fs.StringVar(&f.link, "link", "", "link to the job posting")
	fs.StringVar(&f.benefits, "benefits", "", "benefits")
	fs.StringVar(&f.notes, "notes", "", "free-form notes")
	if withClear {
		fs.BoolVar(&f.clearSalary, "clear-salary", false, "remove the salary")
	}
}

func (f *fieldFlags) fields(cmd *cobra.Command) (domain.Fields, error) {
	out := domain.Fields{
		Company:  f.company,
		Role:     f.role,
		Location: f.location,
		JobLink:  f.link,
		Benefits: f.benefits,
		Notes:    f.notes,
	}
	var err error
	if f.status != "" {
		if out.Status, err = domain.ParseStatus(f.status); err != nil {
			return domain.Fields{}, err
		}
	}
	if f.jobType != "" {
		if out.JobType, err = domain.ParseJobType(f.jobType); err != nil {
			return domain.Fields{}, err
		}
	}
	if f.currency != "" {
		if out.Currency, err = domain.ParseCurrency(f.currency); err != nil {
			return domain.Fields{}, err
		}
	}
	if cmd.Flags().Changed("salary") {
		v := f.salary
		out.Salary = &v
	}
	return out, nil
}

// patch carries only the flags given on the command line.
func (f *fieldFlags) patch(cmd *cobra.Command) (domain.Patch, error) {
	changed := cmd.Flags().Changed
	var p domain.Patch

	strs := []struct {
		flag string
		val  string
		dst  **string
	}{
		{"company", f.company, &p.Company},
		{"role", f.role, &p.Role},
		{"location", f.location, &p.Location},
		{"link", f.link, &p.JobLink},
		{"benefits", f.benefits, &p.Benefits},
		{"notes", f.notes, &p.Notes},
	}
	for _, s := range strs {
		if changed(s.flag) {
			v := s.val
			*s.dst = &v
		}
	}

	if changed("status") {
		st, err := domain.ParseStatus(f.status)
		if err != nil {
			return domain.Patch{}, err
		}
		p.Status = &st
	}
	if changed("type") {
		jt, err := domain.ParseJobType(f.jobType)
		if err != nil {
			return domain.Patch{}, err
		}
		p.JobType = &jt
	}
	if changed("currency") {
		c, err := domain.ParseCurrency(f.currency)
		if err != nil {
			return domain.Patch{}, err
		}
		p.Currency = &c
	}

	switch {
	case f.clearSalary && changed("salary"):
		return domain.Patch{}, &domain.ValidationError{Field: "salary", Reason: "--salary and --clear-salary are mutually exclusive"}
	case f.clearSalary:
		p.Salary = domain.SetAmount(nil)
	case changed("salary"):
		v := f.salary
		p.Salary = domain.SetAmount(&v)
	}
	return p, nil
}

func newAddCmd() *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an application",
		Example: `  jobboard add --company Acme --role "Backend Engineer"
  jobboard add --company Globex --role SRE --status applied --salary 9000 --currency SGD`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.fields(cmd)
			if err != nil {
				return err
			}
			s := sessionFrom(cmd.Context())
			ctx, cancel, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()

			rec, err := s.tracker.CreateIntent(ctx, f)
			if err != nil {
				return s.settle(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s in %s (%s)\n",
				okStyle.Render("✓ Added"), rec.Role, rec.Company, rec.Status, shortID(rec.ID))
			return nil
		},
	}
	ff.register(cmd, false)
	return clientCmd(cmd)
}

func newEditCmd() *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an application",
		Example: `  jobboard edit 3f2a --notes "phone screen on Monday"
  jobboard edit 3f2a --clear-salary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ff.patch(cmd)
			if err != nil {
				return err
			}
			s := sessionFrom(cmd.Context())
			ctx, cancel, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()

			id, err := s.resolveID(args[0])
			if err != nil {
				return err
			}
			rec, err := s.tracker.EditIntent(ctx, id, p)
			if err != nil {
				return s.settle(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s\n", okStyle.Render("✓ Updated"), rec.Role, rec.Company)
			return nil
		},
	}
	ff.register(cmd, true)
	return clientCmd(cmd)
}

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "move <id> <status>",
		Aliases: []string{"mv"},
		Short:   "Move an application to another column",
		Example: `  jobboard move 3f2a interviewing`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			s := sessionFrom(cmd.Context())
			ctx, cancel, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()

			id, err := s.resolveID(args[0])
			if err != nil {
				return err
			}
			if err := s.tracker.MoveIntent(ctx, id, dest); err != nil {
				return s.settle(err)
			}
			rec, _ := s.tracker.Get(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s is now in %s\n",
				okStyle.Render("✓ Moved"), rec.Role, rec.Company, dest)
			return nil
		},
	}
	return clientCmd(cmd)
}

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an application",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd.Context())
			ctx, cancel, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()

			id, err := s.resolveID(args[0])
			if err != nil {
				return err
			}
			rec, _ := s.tracker.Get(id)
			if err := s.tracker.DeleteIntent(ctx, id); err != nil {
				return s.settle(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s\n", okStyle.Render("✓ Deleted"), rec.Role, rec.Company)
			return nil
		},
	}
	return clientCmd(cmd)
}
