// Package runner drives one full generation run: seed files in, SQL files
// out, with optional validation, database load, archiving, and upload.
package runner

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"bankgen/internal/config"
	"bankgen/internal/db"
	"bankgen/internal/emit"
	"bankgen/internal/gen"
	"bankgen/internal/geo"
	"bankgen/internal/model"
	"bankgen/internal/report"
	"bankgen/internal/seedfile"
	"bankgen/internal/sim"
	"bankgen/internal/uploader"
	"bankgen/internal/util"
	"bankgen/internal/validator"
)

// Runner holds the configuration and random source for one run.
type Runner struct {
	cfg  config.Config
	rand *rand.Rand
	asOf time.Time
}

// New constructs a runner. A zero seed picks one from the clock; the chosen
// seed is logged so any run can be reproduced.
func New(cfg config.Config) (*Runner, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	asOf, err := cfg.AsOfTime()
	if err != nil {
		return nil, err
	}
	util.Infof("run seed %d, as_of %s", cfg.Seed, util.FormatDate(asOf))
	return &Runner{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
		asOf: asOf,
	}, nil
}

// Run executes the pipeline end to end.
func (r *Runner) Run(ctx context.Context) error {
	country, dataset, err := r.generate()
	if err != nil {
		return err
	}

	em := emit.New(country)
	entities, err := em.EntityStatements(dataset)
	if err != nil {
		return err
	}
	var transactions []string
	if !r.cfg.SkipTransactions {
		transactions = em.TransactionStatements(dataset)
	}
	schemaDDL := em.SchemaStatements()

	if r.cfg.Output.Validate {
		v := validator.New()
		if err := v.ValidateAll(schemaDDL); err != nil {
			return errors.Wrap(err, "validate schema")
		}
		if err := v.ValidateAll(entities); err != nil {
			return errors.Wrap(err, "validate entities")
		}
		if err := v.ValidateAll(transactions); err != nil {
			return errors.Wrap(err, "validate transactions")
		}
		util.Infof("validated %d statements", len(schemaDDL)+len(entities)+len(transactions))
	}

	if err := r.persist(ctx, dataset, entities, transactions); err != nil {
		return err
	}
	if r.cfg.Load.Enabled {
		if err := r.load(ctx, schemaDDL, entities, transactions); err != nil {
			return errors.Wrap(err, "load database")
		}
	}
	return nil
}

// generate builds the geography and the full entity population, then
// simulates account activity unless transactions are skipped.
func (r *Runner) generate() (*geo.Country, *model.Dataset, error) {
	countryFile, err := seedfile.LoadCountry(r.cfg.Inputs.Country)
	if err != nil {
		return nil, nil, err
	}
	customerRows, err := seedfile.LoadCustomers(r.cfg.Inputs.Customers)
	if err != nil {
		return nil, nil, err
	}
	questionRows, err := seedfile.LoadQuestions(r.cfg.Inputs.Questions)
	if err != nil {
		return nil, nil, err
	}
	storeRows, err := seedfile.LoadStores(r.cfg.Inputs.Stores)
	if err != nil {
		return nil, nil, err
	}

	util.Infof("building country, customers, employees")
	country, err := geo.Build(r.rand, countryFile.States, countryFile.Cities, countryFile.Streets)
	if err != nil {
		return nil, nil, err
	}
	g := gen.New(r.cfg, r.rand, country, r.asOf)

	customers, err := g.Customers(customerRows)
	if err != nil {
		return nil, nil, err
	}
	employees, err := g.Employees(customers)
	if err != nil {
		return nil, nil, err
	}

	util.Infof("building accounts, recovery, cards")
	online, err := g.OnlineAccounts(customers, questionRows)
	if err != nil {
		return nil, nil, err
	}
	offline, owners, err := g.OfflineAccounts(customers)
	if err != nil {
		return nil, nil, err
	}
	cards, err := g.Cards(offline, owners)
	if err != nil {
		return nil, nil, err
	}
	branches, err := g.Branches()
	if err != nil {
		return nil, nil, err
	}
	stores, err := g.Stores(storeRows)
	if err != nil {
		return nil, nil, err
	}

	questions := make([]model.QuestionSetEntry, 0, len(questionRows))
	for _, q := range questionRows {
		questions = append(questions, model.QuestionSetEntry{Question: q.Question, Answers: q.Answers})
	}

	dataset := &model.Dataset{
		Customers: customers,
		Employees: employees,
		Online:    online,
		Questions: questions,
		Offline:   offline,
		Owners:    owners,
		Cards:     cards,
		Branches:  branches,
		Stores:    stores,
	}

	if !r.cfg.SkipTransactions {
		util.Infof("building transactions")
		s := sim.New(r.cfg.Simulator, r.rand, r.asOf)
		transactions, err := s.Simulate(dataset)
		if err != nil {
			return nil, nil, err
		}
		dataset.Transactions = transactions
	}
	return country, dataset, nil
}

// persist writes the SQL files and manifest, then archives and uploads the
// output directory when configured.
func (r *Runner) persist(ctx context.Context, dataset *model.Dataset, entities []string, transactions []string) error {
	rep, err := report.New(r.cfg.Output.Dir)
	if err != nil {
		return err
	}
	if err := rep.WriteSQL(r.cfg.Output.EntityFile, entities); err != nil {
		return err
	}
	manifest := report.Manifest{
		Seed:       r.cfg.Seed,
		AsOf:       util.FormatDate(r.asOf),
		EntityFile: r.cfg.Output.EntityFile,
		Counts: report.Counts{
			Customers:    len(dataset.Customers),
			Employees:    len(dataset.Employees),
			Online:       len(dataset.Online),
			Offline:      len(dataset.Offline),
			Cards:        len(dataset.Cards),
			Branches:     len(dataset.Branches),
			Stores:       len(dataset.Stores),
			Transactions: len(dataset.Transactions),
		},
	}
	if len(transactions) > 0 {
		if err := rep.WriteSQL(r.cfg.Output.TransactionFile, transactions); err != nil {
			return err
		}
		manifest.TransactionFile = r.cfg.Output.TransactionFile
	}
	if err := rep.WriteManifest(manifest); err != nil {
		return err
	}
	util.Highlightf("wrote %d entity and %d transaction statements to %s", len(entities), len(transactions), r.cfg.Output.Dir)

	if r.cfg.Output.Archive {
		name, codec, err := rep.WriteArchive()
		if err != nil {
			return err
		}
		manifest.ArchiveName = name
		manifest.ArchiveCodec = codec
	}
	if r.cfg.Storage.CloudEnabled() {
		up, err := uploader.New(r.cfg.Storage)
		if err != nil {
			return err
		}
		location, err := up.UploadRun(ctx, r.cfg.Output.Dir, rep.RunID)
		if err != nil {
			return errors.Wrap(err, "upload run")
		}
		if location != "" {
			manifest.UploadLocation = location
			util.Infof("uploaded run to %s", location)
		}
	}
	if manifest.ArchiveName != "" || manifest.UploadLocation != "" {
		return rep.WriteManifest(manifest)
	}
	return nil
}

// load applies schema and data to the configured MySQL-compatible server.
func (r *Runner) load(ctx context.Context, schemaDDL []string, entities []string, transactions []string) error {
	if err := db.EnsureDatabase(ctx, r.cfg.Load.DSN, r.cfg.Load.Database); err != nil {
		return err
	}
	exec, err := db.Open(config.UpdateDatabaseInDSN(r.cfg.Load.DSN, r.cfg.Load.Database))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(exec, "db exec")

	if err := exec.Apply(ctx, schemaDDL); err != nil {
		return err
	}
	if err := exec.Apply(ctx, entities); err != nil {
		return err
	}
	if err := exec.Apply(ctx, transactions); err != nil {
		return err
	}
	util.Infof("loaded %d statements into %s", len(schemaDDL)+len(entities)+len(transactions), r.cfg.Load.Database)
	return nil
}
