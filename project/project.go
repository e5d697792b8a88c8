// Package project owns a single compilation session: the configuration, the
// schema file cache and symbol table, and the output jobs driven from them.
// Two sessions never share state.
package project

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"

	"go.protok.dev/protok/descriptor"
	"go.protok.dev/protok/errext"
	"go.protok.dev/protok/errext/exitcodes"
	"go.protok.dev/protok/lib/fsext"
	"go.protok.dev/protok/loader"
	"go.protok.dev/protok/render"
	"go.protok.dev/protok/syntax"
)

// Params is everything a Project needs injected. Logger and Fs fall back to
// the logrus standard logger and the real filesystem.
type Params struct {
	Logger logrus.FieldLogger
	Fs     fsext.Fs
	Config Config
}

// Project is the session object driving the whole pipeline: load, index,
// resolve, merge, render. All state lives here, nothing is global.
type Project struct {
	logger logrus.FieldLogger
	fs     fsext.Fs
	config Config

	loader   *loader.Loader
	registry *descriptor.Registry
	manager  *render.Manager
	writer   *render.Writer
	jobs     []Job
}

// Job is one rendering pass over every loaded schema file. An invalid Suffix
// means the template's default suffix.
type Job struct {
	Template string
	Dir      string
	Suffix   null.String
}

// New assembles a Project from the given parameters. The config is overlaid
// on the defaults, so a zero Config is usable.
func New(params Params) (*Project, error) {
	logger := params.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	fs := params.Fs
	if fs == nil {
		fs = fsext.NewOsFs()
	}
	conf := NewConfig().Apply(params.Config)

	manager, err := render.NewManager(fs)
	if err != nil {
		return nil, err
	}

	return &Project{
		logger:   logger,
		fs:       fs,
		config:   conf,
		loader:   loader.New(logger, fs, conf.ProtoPaths...),
		registry: descriptor.NewRegistry(logger),
		manager:  manager,
		writer:   render.NewWriter(logger, fs),
		jobs:     jobsFromConfig(conf),
	}, nil
}

func jobsFromConfig(conf Config) []Job {
	if len(conf.Jobs) == 0 {
		return []Job{{
			Template: conf.Template.String,
			Dir:      conf.OutDir.String,
			Suffix:   conf.Suffix,
		}}
	}
	jobs := make([]Job, 0, len(conf.Jobs))
	for _, jc := range conf.Jobs {
		job := Job{Template: jc.Template, Dir: conf.OutDir.String, Suffix: conf.Suffix}
		if job.Template == "" {
			job.Template = conf.Template.String
		}
		if jc.Dir.Valid {
			job.Dir = jc.Dir.String
		}
		if jc.Suffix.Valid {
			job.Suffix = jc.Suffix
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Config returns the consolidated configuration the session runs with.
func (p *Project) Config() Config { return p.config }

// Load parses the named schema file and, transitively, everything it
// imports, then indexes every loaded file and resolves all type references.
// The first error aborts the whole load. Loading further files into the same
// session is allowed; already loaded files are not parsed again.
func (p *Project) Load(name string) (*descriptor.File, error) {
	f, err := p.loader.Load(name)
	if err != nil {
		return nil, classify(err)
	}
	for _, loaded := range p.loader.Protos() {
		if err := p.registry.Index(loaded); err != nil {
			return nil, classify(err)
		}
	}
	if err := p.registry.Resolve(); err != nil {
		return nil, classify(err)
	}
	return f, nil
}

// Protos returns every loaded schema file in discovery order.
func (p *Project) Protos() []*descriptor.File {
	return p.loader.Protos()
}

// Proto returns a loaded schema file by logical name or resolved path.
func (p *Project) Proto(name string) (*descriptor.File, error) {
	return p.loader.Proto(name)
}

// TemplateData returns the fully resolved serialized form of a loaded file.
// Pending extension edits are merged in first.
func (p *Project) TemplateData(f *descriptor.File) (map[string]interface{}, error) {
	p.registry.MergeExtensions()
	obj, err := f.TemplateObject()
	if err != nil {
		return nil, errext.WithExitCodeIfNone(err, exitcodes.UnresolvedType)
	}
	return obj, nil
}

// AddJob appends an output job to the session.
func (p *Project) AddJob(job Job) {
	p.jobs = append(p.jobs, job)
}

// Jobs returns the session's output jobs in execution order.
func (p *Project) Jobs() []Job { return p.jobs }

// Render runs every output job over every loaded schema file and writes the
// results. Jobs run one at a time; the first failure stops everything.
func (p *Project) Render() error {
	for _, job := range p.jobs {
		suffix := render.DefaultSuffix(job.Template)
		if job.Suffix.Valid {
			suffix = job.Suffix.String
		}
		for _, f := range p.Protos() {
			data, err := p.TemplateData(f)
			if err != nil {
				return err
			}
			out, err := p.manager.Render(job.Template, data)
			if err != nil {
				return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
			}
			outputPath := render.OutputPath(job.Dir, f.Name, suffix)
			if err := p.writer.Write(outputPath, out); err != nil {
				return errext.WithExitCodeIfNone(err, exitcodes.OutputError)
			}
			p.logger.WithFields(logrus.Fields{
				"file":     f.Name,
				"template": job.Template,
				"output":   outputPath,
			}).Debug("Rendered schema file")
		}
	}
	return nil
}

// classify attaches the exit code matching the error's class, and a hint
// where one helps.
func classify(err error) error {
	var syntaxErr syntax.ParseError
	var importErr loader.UnresolvedImportError
	var typeErr descriptor.UnresolvedTypeError
	var dupErr descriptor.DuplicateDefinitionError
	switch {
	case errors.As(err, &syntaxErr):
		return errext.WithExitCodeIfNone(err, exitcodes.SyntaxError)
	case errors.As(err, &importErr):
		err = errext.WithHint(err, "use --proto-path to add schema search directories")
		return errext.WithExitCodeIfNone(err, exitcodes.UnresolvedImport)
	case errors.As(err, &typeErr):
		return errext.WithExitCodeIfNone(err, exitcodes.UnresolvedType)
	case errors.As(err, &dupErr):
		return errext.WithExitCodeIfNone(err, exitcodes.DuplicateDefinition)
	}
	return err
}
