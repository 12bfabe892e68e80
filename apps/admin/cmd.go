package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	echoapi "github.com/collegedesk/console/apps/api/echo"
	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/audit"
	"github.com/collegedesk/console/core/payment"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp  = errors.New("help provided")
	errNoDB  = errors.New("no audit database configured")
	errEmpty = errors.New("secret key cannot be empty")
)

type commandLine struct {
	conf     *core.Config
	db       *sql.DB
	journal  *audit.Service
	payments payment.Backend
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  token -id ID -name NAME [-admin] [-agent] [-employee] - issue an API token")
	fmt.Fprintln(cli.out, "  payments -student ID - list the installments of a student")
	fmt.Fprintln(cli.out, "  audit [-limit N] [-action ACTION] [-record ID] - list journal entries")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command on the audit database")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenID := tokenCmd.String("id", "", "The staff member's id.")
	tokenName := tokenCmd.String("name", "", "The staff member's display name.")
	tokenAdmin := tokenCmd.Bool("admin", false, "Grant the admin role.")
	tokenAgent := tokenCmd.Bool("agent", false, "Grant the agent role.")
	tokenEmployee := tokenCmd.Bool("employee", false, "Grant the employee role.")

	paymentsCmd := flag.NewFlagSet("payments", flag.ContinueOnError)
	paymentsCmd.SetOutput(cli.out)
	paymentsStudent := paymentsCmd.String("student", "", "The student id.")

	auditCmd := flag.NewFlagSet("audit", flag.ContinueOnError)
	auditCmd.SetOutput(cli.out)
	auditLimit := auditCmd.Int("limit", audit.DefaultLimit, "How many entries to list.")
	auditAction := auditCmd.String("action", "", "Only list this action, e.g. payment.delete.")
	auditRecord := auditCmd.String("record", "", "Only list entries of this record id.")

	switch args[1] {
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *tokenID == "" || *tokenName == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(core.Viewer{
			ID:         *tokenID,
			Name:       *tokenName,
			IsAdmin:    *tokenAdmin,
			IsAgent:    *tokenAgent,
			IsEmployee: *tokenEmployee,
		})
	case "payments":
		if err := paymentsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *paymentsStudent == "" {
			paymentsCmd.Usage()
			return errHelp
		}
		return cli.listPayments(*paymentsStudent)
	case "audit":
		if err := auditCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.listAudit(audit.QueryFilter{Action: *auditAction, RecordID: *auditRecord, Limit: *auditLimit})
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// token prints a signed API token for v. The secret key is prompted for when
// the configuration has none.
func (cli *commandLine) token(v core.Viewer) error {
	conf := *cli.conf
	if conf.SecretKey == "" {
		fmt.Fprint(cli.out, "Enter secret key:")
		key, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(key) == 0 {
			return errEmpty
		}
		conf.SecretKey = string(key)
	}

	token, err := echoapi.GenerateToken(&conf, echoapi.GetViewerClaims(&conf, v))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}

func (cli *commandLine) listPayments(studentID string) error {
	list, err := cli.payments.ListPayments(context.Background(), studentID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRECEIVED\tPAID TO COLLEGE\tDATE\tREMARKS")
	for _, in := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			in.ID, in.AmountReceivedFromStudent, in.AmountPaidToCollege, in.DateOfPayment, in.Remarks)
	}
	return w.Flush()
}

func (cli *commandLine) listAudit(filter audit.QueryFilter) error {
	entries, err := cli.journal.List(context.Background(), filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTION\tRECORD\tBY\tFIELDS\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, e.RecordID.String,
			e.ActorName, strings.Join(e.Fields, ","), e.Message)
	}
	return w.Flush()
}
