package app

import (
	"github.com/specialistvlad/plangen/internal/catalog"
	"github.com/specialistvlad/plangen/internal/registry"
	"github.com/specialistvlad/plangen/modules/join"
	"github.com/specialistvlad/plangen/modules/keywordmatcher"
	"github.com/specialistvlad/plangen/modules/projection"
	"github.com/specialistvlad/plangen/modules/regexmatcher"
	"github.com/specialistvlad/plangen/modules/scansource"
	"github.com/specialistvlad/plangen/modules/tuplesink"
)

// coreModules is the definitive list of all operator types that are compiled
// into the plangen binary.
func coreModules(cat *catalog.Catalog) []registry.Module {
	return []registry.Module{
		&scansource.Module{Catalog: cat},
		&keywordmatcher.Module{},
		&regexmatcher.Module{},
		&projection.Module{},
		&join.Module{},
		&tuplesink.Module{},
	}
}
