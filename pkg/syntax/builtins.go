package syntax

import "github.com/TRT-MichaelO/contracts/pkg/contract"

func init() {
	MustRegister("list", parseList)

	types := []struct {
		keyword string
		kinds   contract.KindSet
	}{
		{"int", contract.NewKindSet(contract.KindInt)},
		{"float", contract.NewKindSet(contract.KindFloat)},
		{"number", contract.NewKindSet(contract.KindInt, contract.KindFloat)},
		{"str", contract.NewKindSet(contract.KindStr)},
		{"string", contract.NewKindSet(contract.KindStr)},
		{"bool", contract.NewKindSet(contract.KindBool)},
		{"None", contract.NewKindSet(contract.KindNull)},
		{"null", contract.NewKindSet(contract.KindNull)},
		{"map", contract.NewKindSet(contract.KindMap)},
		{"dict", contract.NewKindSet(contract.KindMap)},
	}
	for _, t := range types {
		MustRegister(t.keyword, typeProduction(t.kinds))
	}
}

// list, list[L], list(E), list[L](E)
func parseList(p *Parser, kw Token) (contract.Contract, error) {
	var length, elems contract.Contract
	var err error
	if p.Accept("[") {
		if length, err = p.ParseContract(); err != nil {
			return nil, err
		}
		if err := p.Expect("]"); err != nil {
			return nil, err
		}
	}
	if p.Accept("(") {
		if elems, err = p.ParseContract(); err != nil {
			return nil, err
		}
		if err := p.Expect(")"); err != nil {
			return nil, err
		}
	}
	return contract.NewList(p.Where(kw), length, elems), nil
}

func typeProduction(kinds contract.KindSet) Production {
	return func(p *Parser, kw Token) (contract.Contract, error) {
		return contract.NewTypeContract(p.Where(kw), kw.Text, kinds), nil
	}
}
