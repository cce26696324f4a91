package entity

import (
	"github.com/hpungsan/docgen/internal/cursor"
)

// Extract runs every extractor over text, each on its own cursor, and
// returns the filled pools. The first malformed comment aborts the run.
func Extract(text string, o Options) (*Pools, error) {
	c := cursor.New(text)
	pools := &Pools{}
	var err error

	if pools.Functions, err = Functions(c, o); err != nil {
		return nil, err
	}
	if pools.MacroFunctions, err = MacroFunctions(c, o); err != nil {
		return nil, err
	}
	if pools.Constants, err = Constants(c, o); err != nil {
		return nil, err
	}
	if pools.Structures, err = Structures(c, o); err != nil {
		return nil, err
	}
	if pools.Projects, err = Projects(c, o); err != nil {
		return nil, err
	}
	if pools.Categories, err = Categories(c, o); err != nil {
		return nil, err
	}
	return pools, nil
}
