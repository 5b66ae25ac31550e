/*
Copyright 2022 The l7mp/stunner team.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/json"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/yaml"

	"github.com/l7mp/computed-sortby/internal/buildinfo"
	"github.com/l7mp/computed-sortby/pkg/compare"
	"github.com/l7mp/computed-sortby/pkg/computed"
	"github.com/l7mp/computed-sortby/pkg/object"
	"github.com/l7mp/computed-sortby/pkg/observe"
	"github.com/l7mp/computed-sortby/pkg/sortkey"
	"github.com/l7mp/computed-sortby/pkg/visualize"
)

const (
	programName      = "sortby"
	defaultSourceKey = "items"
	sortedAttribute  = "sorted"
)

var (
	version    = "dev"
	commitHash = "n/a"
	buildDate  = "<unknown>"
)

// keyFlag collects repeated -key flags.
type keyFlag []string

func (k *keyFlag) String() string { return strings.Join(*k, ",") }

func (k *keyFlag) Set(v string) error {
	*k = append(*k, v)
	return nil
}

type config struct {
	file, source, output, graph, locale string
	keys                                keyFlag
	version                             bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", programName, err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cfg config

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.file, "f", "-", "Input file (JSON or YAML), - for the standard input.")
	fs.StringVar(&cfg.file, "file", "-", "Input file (JSON or YAML), - for the standard input.")
	fs.StringVar(&cfg.source, "source", "",
		"Dot path of the collection in the input document. Defaults to the document itself if it "+
			"is a list, and to \"items\" otherwise.")
	fs.Var(&cfg.keys, "key", "Sort definition in the form prop[:asc|:desc]. Can be repeated.")
	fs.StringVar(&cfg.output, "o", "json", "Output format: json or yaml.")
	fs.StringVar(&cfg.graph, "graph", "", "Print the dependency graph in the given format (dot or mermaid) instead of sorting.")
	fs.StringVar(&cfg.locale, "locale", "", "BCP 47 language tag for locale-aware string order. Empty means byte-wise order.")
	fs.BoolVar(&cfg.version, "version", false, "Print version information and exit.")

	opts := zap.Options{
		Development:     true,
		DestWriter:      stderr,
		StacktraceLevel: zapcore.Level(3),
		TimeEncoder:     zapcore.RFC3339NanoTimeEncoder,
	}
	opts.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := zap.New(zap.UseFlagOptions(&opts)).WithName(programName)
	setupLog := logger.WithName("setup")

	buildInfo := buildinfo.New(programName, version, commitHash, buildDate)
	if cfg.version {
		fmt.Fprintln(stdout, buildInfo.String())
		return nil
	}
	setupLog.V(1).Info(fmt.Sprintf("starting %s", buildInfo.String()))

	if cfg.output != "json" && cfg.output != "yaml" {
		return fmt.Errorf("unknown output format %q (expected json or yaml)", cfg.output)
	}

	spec, err := sortkey.ParseStrings(cfg.keys...)
	if err != nil {
		return err
	}

	cmp, err := compare.ParseLocale(cfg.locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", cfg.locale, err)
	}

	sourceKey := cfg.source
	if sourceKey == "" {
		sourceKey = defaultSourceKey
	}

	view, err := computed.New(sourceKey, spec, computed.WithComparator(cmp), computed.WithLogger(logger))
	if err != nil {
		return err
	}

	if cfg.graph != "" {
		gen, err := visualize.NewGenerator(cfg.graph)
		if err != nil {
			return err
		}
		class := observe.NewClass(programName, observe.WithLogger(logger))
		if err := class.Define(sortedAttribute, view); err != nil {
			return err
		}
		fmt.Fprint(stdout, gen.Generate(visualize.BuildGraph(class)))
		return nil
	}

	doc, err := readDocument(cfg.file, stdin)
	if err != nil {
		return err
	}

	collection, list := loadCollection(doc, cfg.source)
	if collection == nil {
		setupLog.Info("source collection not found", "source", sourceKey)
	}

	sorted := view.Compute(computed.MapHost{sourceKey: collection})
	setupLog.V(1).Info("sorted collection", "items", len(sorted), "sort", spec.String())

	var out any = content(sorted)
	if list != nil {
		// keep the envelope of list documents
		list["items"] = out
		out = list
	}

	return writeDocument(stdout, cfg.output, out)
}

func readDocument(file string, stdin io.Reader) (any, error) {
	var (
		b   []byte
		err error
	)
	if file == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	j, err := yaml.YAMLToJSON(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	var doc any
	if err := json.Unmarshal(j, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	return doc, nil
}

// loadCollection finds the collection to sort in a document. Lists of objects under the
// default "items" key are loaded as unstructured lists, in which case a shallow copy of the
// document is returned for rendering the output.
func loadCollection(doc any, source string) (any, map[string]any) {
	if source != "" {
		v, _ := object.Get(doc, source)
		return v, nil
	}

	m, ok := doc.(map[string]any)
	if !ok {
		return doc, nil
	}

	items, ok := m[defaultSourceKey].([]any)
	if !ok {
		return nil, nil
	}

	list := &unstructured.UnstructuredList{Object: map[string]any{}}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return items, nil
		}
		list.Items = append(list.Items, unstructured.Unstructured{Object: obj})
	}

	envelope := make(map[string]any, len(m))
	for k, v := range m {
		envelope[k] = v
	}

	return list, envelope
}

func content(items []any) []any {
	ret := make([]any, len(items))
	for i, item := range items {
		if u, ok := item.(*unstructured.Unstructured); ok {
			ret[i] = u.UnstructuredContent()
			continue
		}
		ret[i] = item
	}
	return ret
}

func writeDocument(w io.Writer, format string, doc any) error {
	var (
		b   []byte
		err error
	)
	switch format {
	case "yaml":
		b, err = yaml.Marshal(doc)
	default:
		b, err = json.Marshal(doc)
		b = append(b, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	_, err = w.Write(b)
	return err
}
