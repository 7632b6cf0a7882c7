package app

import (
	"github.com/ComNetsHH/FlowEmu/internal/registry"
	"github.com/ComNetsHH/FlowEmu/modules/mqtt"
	"github.com/ComNetsHH/FlowEmu/modules/socketio"
)

// coreModules is the definitive list of all transports that are compiled
// into the flowedit binary.
var coreModules = []registry.Module{
	&mqtt.Module{},
	&socketio.Module{},
}
