package ast

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Program is the fully resolved source unit: contracts, libraries and free
// functions with every call expression bound to its declaration.
type Program struct {
	Contracts []*Contract // contracts and libraries, in declaration order
	Functions []*Function // free functions
}

// ContractKind distinguishes ordinary contracts from libraries
type ContractKind int

const (
	KindContract ContractKind = iota
	KindLibrary
)

// Contract represents a contract or library declaration
// Example: "contract Token is Base, Ownable { ... }"
type Contract struct {
	Pos        Position
	Name       string
	Kind       ContractKind
	Bases      []*Contract // direct bases as declared
	Linearized []*Contract // linearized base order, self first
	Functions  []*Function
}

func (c *Contract) IsLibrary() bool {
	return c.Kind == KindLibrary
}

// Find returns the function named name declared directly in c, or nil.
func (c *Contract) Find(name string) *Function {
	for _, fn := range c.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// SuperContract returns the contract that follows c in mostDerived's
// linearized base order, or nil when c is the most-base contract.
func (c *Contract) SuperContract(mostDerived *Contract) *Contract {
	for i, base := range mostDerived.Linearized {
		if base == c && i+1 < len(mostDerived.Linearized) {
			return mostDerived.Linearized[i+1]
		}
	}
	return nil
}

// Function represents a function definition
// Example: "fn transfer(to: address, amount: u256) virtual { ... }"
type Function struct {
	Pos      Position
	Name     string
	Contract *Contract // declaring contract or library; nil for free functions
	Virtual  bool
	Override bool
	Params   []*Param
	Return   string // return type name, "" for none
	Body     *Block
}

// Param represents a function parameter
type Param struct {
	Pos  Position
	Name string
	Type string
}

func (f *Function) IsFree() bool {
	return f.Contract == nil
}

func (f *Function) IsLibraryMember() bool {
	return f.Contract != nil && f.Contract.IsLibrary()
}

// ResolveVirtual returns the implementation of f that executes when f is
// called with mostDerived as the runtime type context: the first declaration
// with f's name along mostDerived's linearized base order. When searchStart
// is non-nil the search begins at it instead of at the most-derived
// contract, which is how super-calls skip the caller's own override. Free
// and library functions resolve to themselves.
func (f *Function) ResolveVirtual(mostDerived *Contract, searchStart *Contract) *Function {
	if f.IsFree() || f.IsLibraryMember() {
		return f
	}
	skipping := searchStart != nil
	for _, contract := range mostDerived.Linearized {
		if skipping {
			if contract != searchStart {
				continue
			}
			skipping = false
		}
		if found := contract.Find(f.Name); found != nil {
			return found
		}
	}
	return nil
}

// QualifiedName returns "Contract.name" for members and the bare name for
// free functions.
func (f *Function) QualifiedName() string {
	if f.Contract == nil {
		return f.Name
	}
	return f.Contract.Name + "." + f.Name
}
