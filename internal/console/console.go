// Package console implements the interactive line protocol: one session per
// process, one command per line.
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/Domenick1991/flightapp/internal/format"
	"github.com/Domenick1991/flightapp/internal/service/account"
	"github.com/Domenick1991/flightapp/internal/service/booking"
	"github.com/Domenick1991/flightapp/internal/service/search"
	"github.com/Domenick1991/flightapp/internal/session"
	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
)

type Console struct {
	sess     *session.Session
	accounts account.AccountUseCase
	search   search.SearchUseCase
	bookings booking.BookingUseCase
	out      io.Writer
}

func New(accounts account.AccountUseCase, search search.SearchUseCase, bookings booking.BookingUseCase, out io.Writer) *Console {
	return &Console{
		sess:     session.New(uuid.NewString()),
		accounts: accounts,
		search:   search,
		bookings: bookings,
		out:      out,
	}
}

// Execute runs one command line and reports whether the console should keep
// reading. City names with spaces must be quoted.
func (c *Console) Execute(ctx context.Context, line string) bool {
	args, err := shellwords.Parse(line)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return true
	}
	if len(args) == 0 {
		return true
	}
	if args[0] == "quit" || args[0] == "exit" {
		return false
	}

	root := c.commands(ctx)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return true
}

func (c *Console) commands(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:           "flightapp",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(c.out)
	root.SetErr(c.out)
	root.CompletionOptions.DisableDefaultCmd = true

	command := func(use, short string, args cobra.PositionalArgs, run func(args []string) error) *cobra.Command {
		return &cobra.Command{
			Use:                   use,
			Short:                 short,
			Args:                  args,
			DisableFlagParsing:    true,
			DisableFlagsInUseLine: true,
			RunE:                  func(_ *cobra.Command, a []string) error { return run(a) },
		}
	}

	root.AddCommand(
		command("create <username> <password> <initial amount>", "Create a user", cobra.ExactArgs(3), func(args []string) error {
			amount, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[2])
			}
			name, err := c.accounts.CreateAccount(ctx, account.CreateAccountInput{Username: args[0], Password: args[1], InitialBalance: amount})
			fmt.Fprint(c.out, format.CreateAccount(name, err))
			return nil
		}),
		command("login <username> <password>", "Log in", cobra.ExactArgs(2), func(args []string) error {
			name, err := c.accounts.Login(ctx, c.sess, args[0], args[1])
			fmt.Fprint(c.out, format.Login(name, err))
			return nil
		}),
		command("logout", "Log out", cobra.NoArgs, func([]string) error {
			fmt.Fprint(c.out, format.Logout(c.accounts.Logout(c.sess)))
			return nil
		}),
		command("search <origin city> <destination city> <direct> <day> <num itineraries>", "Search itineraries", cobra.ExactArgs(5), func(args []string) error {
			direct, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("invalid direct flag %q", args[2])
			}
			day, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid day %q", args[3])
			}
			limit, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("invalid itinerary count %q", args[4])
			}
			result, err := c.search.Search(ctx, c.sess, search.Query{
				Origin: args[0], Destination: args[1], DirectOnly: direct, Day: day, MaxResults: limit,
			})
			fmt.Fprint(c.out, format.Search(result, err))
			return nil
		}),
		command("book <itinerary id>", "Book an itinerary from the last search", cobra.ExactArgs(1), func(args []string) error {
			rank, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid itinerary id %q", args[0])
			}
			id, err := c.bookings.Book(ctx, c.sess, rank)
			fmt.Fprint(c.out, format.Book(rank, id, err))
			return nil
		}),
		command("pay <reservation id>", "Pay for a reservation", cobra.ExactArgs(1), func(args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid reservation id %q", args[0])
			}
			payment, err := c.bookings.Pay(ctx, c.sess, id)
			username, _ := c.sess.Username()
			fmt.Fprint(c.out, format.Pay(username, id, payment, err))
			return nil
		}),
		command("reservations", "List reservations", cobra.NoArgs, func([]string) error {
			list, err := c.bookings.Reservations(ctx, c.sess)
			fmt.Fprint(c.out, format.Reservations(list, err))
			return nil
		}),
	)
	return root
}
