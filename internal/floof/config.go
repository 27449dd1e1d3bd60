// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	cage_shell "github.com/codeactual/floof/internal/cage/shell"
	"github.com/codeactual/floof/internal/floof/errkind"
)

// recognizedKeyword is the set of operation keywords named in spec.md §6.
var recognizedKeyword = map[string]bool{
	"command":      true,
	"copy":         true,
	"set-workdir":  true,
	"watch":        true,
	"on-change":    true,
	"http":         true,
	"reload":       true,
	"run-task":     true,
	"concurrently": true,
}

// OperationSpec is one still-undecoded operation entry from the config file: a
// keyword paired with its raw, keyword-specific body.
type OperationSpec struct {
	Keyword string
	Body    interface{}
}

// TaskSpec is one still-undecoded task: its name and ordered operation specs.
type TaskSpec struct {
	Name       string
	Operations []OperationSpec
}

// Config is the parsed, validated configuration file: an immutable mapping of task
// name to TaskSpec (spec.md §3).
type Config struct {
	Tasks map[string]*TaskSpec

	// RootDir is the directory containing the config file; it seeds the root frame's
	// WorkDir (spec.md §4.3).
	RootDir string
}

// ReadConfigFile reads and parses path into a validated Config.
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.New(errkind.Config, "failed to read config file: "+path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errkind.New(errkind.Config, "failed to resolve absolute path of config file: "+path, err)
	}

	cfg, err := ParseConfig(data, filepath.Dir(absPath))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseConfig decodes a config file's raw bytes. rootDir seeds the root WorkDir.
func ParseConfig(data []byte, rootDir string) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errkind.New(errkind.Config, "failed to parse YAML", err)
	}

	tasks := make(map[string]*TaskSpec, len(raw))
	for name, body := range raw {
		specs, err := decodeTaskBody(body)
		if err != nil {
			return nil, errkind.New(errkind.Config, fmt.Sprintf("task [%s]: invalid body", name), err)
		}
		tasks[name] = &TaskSpec{Name: name, Operations: specs}
	}

	cfg := &Config{Tasks: tasks, RootDir: rootDir}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decodeTaskBody normalizes a task's raw YAML value into an ordered operation list.
//
// A scalar string or a single-key mapping is the SUPPLEMENT shorthand for a one
// operation task (e.g. "build: go build ./..."); anything else must be a sequence, each
// element independently decoded via the three operation wire-shapes named in
// spec.md §6 (bare string / list of strings / single-key tagged map).
func decodeTaskBody(body interface{}) ([]OperationSpec, error) {
	switch b := body.(type) {
	case string:
		return []OperationSpec{{Keyword: "command", Body: b}}, nil
	case map[interface{}]interface{}:
		spec, err := decodeOperationSpec(b)
		if err != nil {
			return nil, err
		}
		return []OperationSpec{spec}, nil
	case []interface{}:
		specs := make([]OperationSpec, 0, len(b))
		for i, elem := range b {
			spec, err := decodeOperationSpec(elem)
			if err != nil {
				return nil, errors.Wrapf(err, "operation %d", i)
			}
			specs = append(specs, spec)
		}
		return specs, nil
	default:
		return nil, errors.Errorf("expected a string, mapping, or list, got %T", body)
	}
}

func decodeOperationSpec(elem interface{}) (OperationSpec, error) {
	if s, ok := elem.(string); ok {
		return OperationSpec{Keyword: "command", Body: s}, nil
	}

	if list, ok := elem.([]interface{}); ok {
		args := make([]string, 0, len(list))
		for _, a := range list {
			s, ok := a.(string)
			if !ok {
				return OperationSpec{}, errors.Errorf("explicit command argument list must contain only strings, got %T", a)
			}
			args = append(args, s)
		}
		return OperationSpec{Keyword: "command", Body: args}, nil
	}

	if m, ok := asStringKeyedMap(elem); ok {
		if len(m) != 1 {
			return OperationSpec{}, errors.Errorf("tagged operation mapping must have exactly one key, got %d", len(m))
		}
		for k, v := range m {
			if !recognizedKeyword[k] {
				return OperationSpec{}, errors.Errorf("unrecognized operation keyword [%s]", k)
			}
			return OperationSpec{Keyword: k, Body: v}, nil
		}
	}

	return OperationSpec{}, errors.Errorf("unrecognized operation shape: %T", elem)
}

// asStringKeyedMap recognizes both yaml.v2's raw map[interface{}]interface{} nodes and
// the map[string]interface{} shape normalizeYAMLNode produces, so operation specs
// nested inside a mapstructure-decoded body (e.g. watch's [run]) decode the same way as
// specs read straight from the top-level YAML tree.
func asStringKeyedMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// decodeBody mapstructure-decodes a keyword's raw body into dst, normalizing yaml.v2's
// map[interface{}]interface{} nodes first.
func decodeBody(body interface{}, dst interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(normalizeYAMLNode(body))
}

// normalizeYAMLNode recursively converts yaml.v2's map[interface{}]interface{} nodes
// into map[string]interface{} so mapstructure can key off of them.
func normalizeYAMLNode(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAMLNode(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalizeYAMLNode(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeYAMLNode(val)
		}
		return out
	default:
		return v
	}
}

// validateConfig runs every task's operations through validateOperationList (no
// Operation is constructed), plus the whole-config checks that individual operations can't perform in
// isolation: task name uniqueness (guaranteed by the map itself) and static
// RunTask cycle detection (spec.md §9 open question, resolved here rather than left to
// hang at runtime).
func validateConfig(cfg *Config) error {
	for name, task := range cfg.Tasks {
		if err := validateOperationList(cfg, task.Operations, ""); err != nil {
			return errkind.New(errkind.Config, fmt.Sprintf("task [%s]", name), err)
		}
	}

	return detectRunTaskCycles(cfg)
}

// validateOperationList validates each operation spec given the keyword of the
// operation it's directly nested under ("" for a task's top-level list), without
// constructing a runnable Operation (RunTask referencing a missing task and on-change
// outside watch are both caught here).
func validateOperationList(cfg *Config, specs []OperationSpec, parentOpKeyword string) error {
	for _, spec := range specs {
		if err := validateOperationSpec(cfg, spec, parentOpKeyword); err != nil {
			return errors.Wrapf(err, "operation [%s]", spec.Keyword)
		}
	}
	return nil
}

func validateOperationSpec(cfg *Config, spec OperationSpec, parentOpKeyword string) error {
	switch spec.Keyword {
	case "command":
		_, err := normalizeCommandBody(spec.Body)
		return err

	case "copy":
		var body copyBody
		if err := decodeBody(spec.Body, &body); err != nil {
			return err
		}
		if body.Src == "" || body.Dst == "" {
			return errors.New("copy requires non-empty [src] and [dst]")
		}
		return nil

	case "set-workdir":
		path, ok := spec.Body.(string)
		if !ok || path == "" {
			return errors.New("set-workdir requires a non-empty string body")
		}
		return nil

	case "watch":
		var body watchBody
		if err := decodeBody(spec.Body, &body); err != nil {
			return err
		}
		if len(body.Paths) == 0 {
			return errors.New("watch requires at least one path")
		}
		innerSpecs, err := decodeInnerOperationList(body.Run)
		if err != nil {
			return errors.Wrap(err, "watch [run]")
		}
		return validateOperationList(cfg, innerSpecs, "watch")

	case "on-change":
		if parentOpKeyword != "watch" {
			return errors.New("on-change must be directly nested under watch")
		}
		innerSpec, err := decodeOperationSpec(normalizeSingleOperation(spec.Body))
		if err != nil {
			return err
		}
		return validateOperationSpec(cfg, innerSpec, "on-change")

	case "http":
		var body httpBody
		if err := decodeBody(spec.Body, &body); err != nil {
			return err
		}
		if (body.Proxy == "") == (body.Serve == "") {
			return errors.New("http requires exactly one of [proxy] or [serve]")
		}
		return nil

	case "reload":
		return nil

	case "run-task":
		name, ok := spec.Body.(string)
		if !ok || name == "" {
			return errors.New("run-task requires a non-empty string body")
		}
		if _, exists := cfg.Tasks[name]; !exists {
			return errors.Errorf("run-task references unknown task [%s]", name)
		}
		return nil

	case "concurrently":
		innerSpecs, err := decodeInnerOperationList(spec.Body)
		if err != nil {
			return errors.Wrap(err, "concurrently")
		}
		return validateOperationList(cfg, innerSpecs, "concurrently")

	default:
		return errors.Errorf("unrecognized operation keyword [%s]", spec.Keyword)
	}
}

// decodeInnerOperationList decodes a raw []interface{} body (watch's [run],
// concurrently's body) into operation specs using the same three wire-shapes as the
// top-level task list.
func decodeInnerOperationList(body interface{}) ([]OperationSpec, error) {
	list, ok := body.([]interface{})
	if !ok {
		return nil, errors.Errorf("expected a list of operations, got %T", body)
	}
	specs := make([]OperationSpec, 0, len(list))
	for i, elem := range list {
		spec, err := decodeOperationSpec(elem)
		if err != nil {
			return nil, errors.Wrapf(err, "operation %d", i)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// normalizeSingleOperation lets on-change's body be either a bare single operation spec
// (string/list/map) directly, matching spec.md §6's "single operation" body.
func normalizeSingleOperation(body interface{}) interface{} {
	return body
}

type copyBody struct {
	Src string
	Dst string
}

type watchBody struct {
	Paths    []string
	Run      interface{}
	Debounce int
}

type httpBody struct {
	Proxy string
	Serve string
	Addr  string
}

// ProgramAndArgs is a normalized {program, args} pair, the result of decoding either of
// Command's two wire forms (spec.md §4.2).
type ProgramAndArgs struct {
	Program string
	Args    []string
}

// normalizeCommandBody accepts Command's three shapes (string, []string/[]interface{},
// or {run, workdir?}) and returns a normalized ProgramAndArgs plus optional workdir.
func normalizeCommandBody(body interface{}) (commandSpec, error) {
	switch b := body.(type) {
	case string:
		pa, err := programAndArgsFromString(b)
		return commandSpec{ProgramAndArgs: pa}, err

	case []string:
		pa, err := programAndArgsFromList(b)
		return commandSpec{ProgramAndArgs: pa}, err

	case []interface{}:
		strs := make([]string, 0, len(b))
		for _, v := range b {
			s, ok := v.(string)
			if !ok {
				return commandSpec{}, errors.Errorf("command argument list must contain only strings, got %T", v)
			}
			strs = append(strs, s)
		}
		pa, err := programAndArgsFromList(strs)
		return commandSpec{ProgramAndArgs: pa}, err

	default:
		m, ok := asStringKeyedMap(body)
		if !ok {
			return commandSpec{}, errors.Errorf("command requires a string, list, or {run, workdir?} mapping, got %T", body)
		}

		var raw struct {
			Run     interface{}
			WorkDir string `mapstructure:"workdir"`
		}
		if err := decodeBody(m, &raw); err != nil {
			return commandSpec{}, err
		}
		inner, err := normalizeCommandBody(raw.Run)
		if err != nil {
			return commandSpec{}, err
		}
		inner.WorkDir = raw.WorkDir
		return inner, nil
	}
}

type commandSpec struct {
	ProgramAndArgs
	WorkDir string
}

func programAndArgsFromString(s string) (ProgramAndArgs, error) {
	args, err := shellSplit(s)
	if err != nil {
		return ProgramAndArgs{}, err
	}
	return programAndArgsFromList(args)
}

func programAndArgsFromList(args []string) (ProgramAndArgs, error) {
	if len(args) == 0 || args[0] == "" {
		return ProgramAndArgs{}, errors.New("command requires a non-empty program")
	}
	for _, a := range args {
		if a == "" {
			return ProgramAndArgs{}, errors.New("command arguments must not be empty")
		}
	}
	return ProgramAndArgs{Program: args[0], Args: args[1:]}, nil
}

// detectRunTaskCycles statically rejects any RunTask reference graph containing a
// cycle, resolving spec.md §9's open question in favor of failing fast at config
// validation rather than hanging at runtime.
func detectRunTaskCycles(cfg *Config) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(cfg.Tasks))

	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.Errorf("run-task cycle detected: %v -> %s", chain, name)
		}

		state[name] = visiting
		chain = append(chain, name)

		task, ok := cfg.Tasks[name]
		if ok {
			for _, spec := range task.Operations {
				if err := visitSpecForCycles(spec, chain, visit); err != nil {
					return err
				}
			}
		}

		state[name] = done
		return nil
	}

	for name := range cfg.Tasks {
		if err := visit(name, nil); err != nil {
			return errkind.New(errkind.Config, "run-task cycle", err)
		}
	}

	return nil
}

// visitSpecForCycles walks into run-task, watch's [run], and concurrently bodies to
// find every reachable run-task reference.
func visitSpecForCycles(spec OperationSpec, chain []string, visit func(string, []string) error) error {
	switch spec.Keyword {
	case "run-task":
		name, _ := spec.Body.(string)
		return visit(name, chain)

	case "watch":
		var body watchBody
		if err := decodeBody(spec.Body, &body); err != nil {
			return nil // already reported by validateConfig
		}
		inner, err := decodeInnerOperationList(body.Run)
		if err != nil {
			return nil
		}
		for _, s := range inner {
			if err := visitSpecForCycles(s, chain, visit); err != nil {
				return err
			}
		}

	case "concurrently":
		inner, err := decodeInnerOperationList(spec.Body)
		if err != nil {
			return nil
		}
		for _, s := range inner {
			if err := visitSpecForCycles(s, chain, visit); err != nil {
				return err
			}
		}

	case "on-change":
		spec, err := decodeOperationSpec(spec.Body)
		if err != nil {
			return nil
		}
		return visitSpecForCycles(spec, chain, visit)
	}

	return nil
}

// shellSplit whitespace-splits a bare command string. A pipeline ("a | b") is rejected
// here: Command spawns exactly one process, it does not implement shell piping.
func shellSplit(s string) ([]string, error) {
	parsed, err := cage_shell.Parse(s)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse command [%s]", s)
	}
	if len(parsed) != 1 {
		return nil, errors.Errorf("command [%s] must not contain a shell pipeline", s)
	}
	return parsed[0], nil
}
