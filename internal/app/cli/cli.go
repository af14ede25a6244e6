// Pacote cli implementa os subcomandos do votectl, a ferramenta de operação da urna.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/marcelojr/urna-online/internal/domain"
)

var ErrUsage = errors.New("uso: votectl <create-admin|verify-voter|results|stats|audit> [flags]")

// AdminManager cobre as ações administrativas que não passam pela API.
type AdminManager interface {
	CreateAdmin(ctx context.Context, username, password, role string) (domain.Admin, error)
	VerifyVoter(ctx context.Context, id domain.VoterID) (domain.Voter, error)
}

type Deps struct {
	Admins  AdminManager
	Results domain.ResultsService
	Audit   domain.AuditRepository
	Out     io.Writer
	Err     io.Writer
}

type Runner struct {
	admins  AdminManager
	results domain.ResultsService
	audit   domain.AuditRepository
	out     io.Writer
	errOut  io.Writer
}

func New(d Deps) *Runner {
	errOut := d.Err
	if errOut == nil {
		errOut = io.Discard
	}
	return &Runner{
		admins:  d.Admins,
		results: d.Results,
		audit:   d.Audit,
		out:     d.Out,
		errOut:  errOut,
	}
}

// Run executa o subcomando em args[0]; args não inclui o nome do binário.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "create-admin":
		return r.createAdmin(ctx, args[1:])
	case "verify-voter":
		return r.verifyVoter(ctx, args[1:])
	case "results":
		return r.showResults(ctx, args[1:])
	case "stats":
		return r.showStats(ctx, args[1:])
	case "audit":
		return r.showAudit(ctx, args[1:])
	default:
		return fmt.Errorf("comando desconhecido %q: %w", args[0], ErrUsage)
	}
}

func (r *Runner) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.errOut)
	return fs
}

func (r *Runner) createAdmin(ctx context.Context, args []string) error {
	fs := r.flagSet("create-admin")
	username := fs.String("username", "", "login do administrador")
	password := fs.String("password", "", "senha (minimo 8 caracteres)")
	role := fs.String("role", "admin", "papel gravado no cadastro")
	if err := fs.Parse(args); err != nil {
		return err
	}

	admin, err := r.admins.CreateAdmin(ctx, *username, *password, *role)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(r.out, "administrador %s criado (id %s)\n", admin.Username, admin.ID)
	return nil
}

func (r *Runner) verifyVoter(ctx context.Context, args []string) error {
	fs := r.flagSet("verify-voter")
	id := fs.String("id", "", "id do eleitor")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" && fs.NArg() > 0 {
		*id = fs.Arg(0)
	}
	if *id == "" {
		return fmt.Errorf("verify-voter: id obrigatorio: %w", ErrUsage)
	}

	voter, err := r.admins.VerifyVoter(ctx, domain.VoterID(*id))
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(r.out, "eleitor %s (%s) liberado para votar\n", voter.ID, voter.Email)
	return nil
}

func (r *Runner) showResults(ctx context.Context, args []string) error {
	fs := r.flagSet("results")
	election := fs.String("election", "", "id da eleicao")
	live := fs.Bool("live", false, "parcial em tempo real, sem esperar o encerramento")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *election == "" && fs.NArg() > 0 {
		*election = fs.Arg(0)
	}
	if *election == "" {
		return fmt.Errorf("results: id da eleicao obrigatorio: %w", ErrUsage)
	}

	var (
		res domain.ElectionResults
		err error
	)
	if *live {
		res, err = r.results.RealTime(ctx, domain.ElectionID(*election))
	} else {
		res, err = r.results.Results(ctx, domain.ElectionID(*election))
	}
	if err != nil {
		return err
	}

	color.New(color.FgYellow).Fprintf(r.out, "\nApuracao da eleicao %s (%d votos)\n", res.ElectionID, res.TotalVotes)
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Posicao", "Candidato", "Partido", "Votos", "%"})
	for i, c := range res.Candidates {
		table.Append([]string{
			strconv.Itoa(i + 1),
			c.Name,
			c.Party,
			strconv.FormatInt(c.VoteCount, 10),
			strconv.FormatFloat(c.Percentage, 'f', 2, 64),
		})
	}
	table.Render()

	if !res.Timestamp.IsZero() {
		fmt.Fprintf(r.out, "parcial em %s\n", res.Timestamp.Format(time.RFC3339))
	}
	return nil
}

func (r *Runner) showStats(ctx context.Context, args []string) error {
	fs := r.flagSet("stats")
	election := fs.String("election", "", "id da eleicao")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *election == "" && fs.NArg() > 0 {
		*election = fs.Arg(0)
	}
	if *election == "" {
		return fmt.Errorf("stats: id da eleicao obrigatorio: %w", ErrUsage)
	}

	stats, err := r.results.Statistics(ctx, domain.ElectionID(*election))
	if err != nil {
		return err
	}

	color.New(color.FgYellow).Fprintf(r.out, "\nEstatisticas da eleicao %s\n", stats.ElectionID)
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Indicador", "Valor"})
	table.Append([]string{"Eleitores aptos", strconv.FormatInt(stats.TotalEligibleVoters, 10)})
	table.Append([]string{"Votos", strconv.FormatInt(stats.TotalVotesCast, 10)})
	table.Append([]string{"Eleitores distintos", strconv.FormatInt(stats.UniqueVoters, 10)})
	table.Append([]string{"Candidatos", strconv.FormatInt(stats.TotalCandidates, 10)})
	table.Append([]string{"Comparecimento (%)", strconv.FormatFloat(stats.TurnoutPercentage, 'f', 2, 64)})
	table.Render()
	return nil
}

func (r *Runner) showAudit(ctx context.Context, args []string) error {
	fs := r.flagSet("audit")
	limit := fs.Int("limit", 50, "quantidade de entradas mais recentes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := r.audit.ListRecent(ctx, *limit)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Quando", "Eleitor", "Acao", "IP"})
	for _, e := range entries {
		voter := "-"
		if e.VoterID != nil {
			voter = string(*e.VoterID)
		}
		table.Append([]string{e.CreatedAt.Format(time.RFC3339), voter, e.Action, e.IPAddress})
	}
	table.Render()
	return nil
}
