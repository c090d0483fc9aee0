package compiler

import (
	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
	machineTypes "github.com/robbyt/go-payoffscript/machines/types"
)

// Executable is a compiled payoff script.
type Executable struct {
	source []byte
	script *vm.Script
}

func newExecutable(source []byte, s *vm.Script) *Executable {
	if len(source) == 0 || s == nil {
		return nil
	}
	return &Executable{source: source, script: s}
}

func (e *Executable) GetSource() string {
	return string(e.source)
}

// GetByteCode returns the *vm.Script.
func (e *Executable) GetByteCode() any {
	return e.script
}

func (e *Executable) GetPayoffScript() *vm.Script {
	return e.script
}

func (e *Executable) GetMachineType() machineTypes.Type {
	return machineTypes.Payoff
}
