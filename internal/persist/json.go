package persist

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/prxssh/mediactl/internal/engine"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonCmd is the wire shape for one ModifyCmd in the JSON sequence
// format. Kind is the same keyword vocabulary as the textual grammar so
// the two formats can share error messages and tooling.
type jsonCmd struct {
	Kind        string   `json:"kind"`
	Parent      string   `json:"parent,omitempty"`
	Path        string   `json:"path,omitempty"`
	NewContents []string `json:"new_contents,omitempty"`
	NewFilters  []string `json:"new_filters,omitempty"`
	Weight      *uint32  `json:"weight,omitempty"`
	OrderKind   string   `json:"order_kind,omitempty"`
}

var kindToKeyword = map[engine.ModifyKind]string{
	engine.CmdAddBucket:    "add-bucket",
	engine.CmdAddJoint:     "add-joint",
	engine.CmdDeleteEmpty:  "delete-empty",
	engine.CmdFillBucket:   "fill-bucket",
	engine.CmdSetFilters:   "set-filters",
	engine.CmdSetWeight:    "set-weight",
	engine.CmdSetOrderType: "set-order-type",
}

var keywordToKind = func() map[string]engine.ModifyKind {
	m := make(map[string]engine.ModifyKind, len(kindToKeyword))
	for k, v := range kindToKeyword {
		m[v] = k
	}
	return m
}()

// WriteJSONLog encodes cmds as a JSON array, one object per command.
func WriteJSONLog(w io.Writer, cmds []engine.ModifyCmd[Item, Filter]) error {
	wire := make([]jsonCmd, 0, len(cmds))
	for _, cmd := range cmds {
		jc, err := toJSONCmd(cmd)
		if err != nil {
			return err
		}
		wire = append(wire, jc)
	}

	enc := jsonAPI.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(wire); err != nil {
		return fmt.Errorf("persist: write json log: %w", err)
	}
	return nil
}

// ReadJSONLog decodes a JSON command sequence back into ModifyCmds.
func ReadJSONLog(r io.Reader) ([]engine.ModifyCmd[Item, Filter], error) {
	var wire []jsonCmd
	if err := jsonAPI.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("persist: read json log: %w", err)
	}

	cmds := make([]engine.ModifyCmd[Item, Filter], 0, len(wire))
	for i, jc := range wire {
		cmd, err := fromJSONCmd(jc)
		if err != nil {
			return nil, fmt.Errorf("persist: json log entry %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func toJSONCmd(cmd engine.ModifyCmd[Item, Filter]) (jsonCmd, error) {
	keyword, ok := kindToKeyword[cmd.Kind]
	if !ok {
		return jsonCmd{}, fmt.Errorf("persist: unknown command kind %d", cmd.Kind)
	}

	jc := jsonCmd{Kind: keyword}
	switch cmd.Kind {
	case engine.CmdAddBucket, engine.CmdAddJoint:
		jc.Parent = cmd.Parent.String()
	case engine.CmdDeleteEmpty:
		jc.Path = cmd.Path.String()
	case engine.CmdFillBucket:
		jc.Path = cmd.Path.String()
		jc.NewContents = cmd.NewContents
	case engine.CmdSetFilters:
		jc.Path = cmd.Path.String()
		jc.NewFilters = cmd.NewFilters
	case engine.CmdSetWeight:
		jc.Path = cmd.Path.String()
		w := cmd.Weight
		jc.Weight = &w
	case engine.CmdSetOrderType:
		jc.Path = cmd.Path.String()
		jc.OrderKind = cmd.OrderKind.String()
	}
	return jc, nil
}

func fromJSONCmd(jc jsonCmd) (engine.ModifyCmd[Item, Filter], error) {
	kind, ok := keywordToKind[jc.Kind]
	if !ok {
		return engine.ModifyCmd[Item, Filter]{}, fmt.Errorf("unknown kind %q", jc.Kind)
	}

	cmd := engine.ModifyCmd[Item, Filter]{Kind: kind}

	switch kind {
	case engine.CmdAddBucket, engine.CmdAddJoint:
		p, err := engine.ParsePath(jc.Parent)
		if err != nil {
			return cmd, err
		}
		cmd.Parent = p
	case engine.CmdDeleteEmpty:
		p, err := engine.ParsePath(jc.Path)
		if err != nil {
			return cmd, err
		}
		cmd.Path = p
	case engine.CmdFillBucket:
		p, err := engine.ParsePath(jc.Path)
		if err != nil {
			return cmd, err
		}
		cmd.Path = p
		cmd.NewContents = jc.NewContents
	case engine.CmdSetFilters:
		p, err := engine.ParsePath(jc.Path)
		if err != nil {
			return cmd, err
		}
		cmd.Path = p
		cmd.NewFilters = jc.NewFilters
	case engine.CmdSetWeight:
		p, err := engine.ParsePath(jc.Path)
		if err != nil {
			return cmd, err
		}
		cmd.Path = p
		if jc.Weight == nil {
			return cmd, fmt.Errorf("set-weight missing weight")
		}
		cmd.Weight = *jc.Weight
	case engine.CmdSetOrderType:
		p, err := engine.ParsePath(jc.Path)
		if err != nil {
			return cmd, err
		}
		cmd.Path = p
		k, err := engine.ParseOrderKind(jc.OrderKind)
		if err != nil {
			return cmd, err
		}
		cmd.OrderKind = k
	}

	return cmd, nil
}
