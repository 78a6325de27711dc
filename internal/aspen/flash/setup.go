package flash

import (
	"fmt"
	"strconv"

	"apexvle/internal/aspen"
	"apexvle/internal/logging"
)

type write struct {
	path  string
	value interface{}
}

// Setup writes the component list, property method, flash block and feed
// stream of c into the simulation.
func Setup(app aspen.App, c Case) error {
	if err := c.Validate(); err != nil {
		return err
	}
	stream := aspen.JoinPath(aspen.PathStreams, c.Feed, "Input")
	block := aspen.JoinPath(aspen.PathBlocks, c.Block, "Input")
	method := aspen.JoinPath(aspen.PathPropertyMethods, c.PropertySet, "Input")

	// Entries left by an earlier case would otherwise join this one.
	for _, list := range []string{
		aspen.JoinPath(aspen.PathComponentsInput, "CASN"),
		aspen.JoinPath(aspen.PathComponentsInput, "OUTNAME"),
		stream + `\Composition\Mole Fractions`,
	} {
		if err := aspen.Clear(app, list); err != nil {
			return fmt.Errorf("setup %s: %w", c.Name, err)
		}
	}

	var writes []write
	for i, comp := range c.Components {
		idx := strconv.Itoa(i)
		writes = append(writes,
			write{aspen.JoinPath(aspen.PathComponentsInput, "CASN", idx), comp.CAS},
			write{aspen.JoinPath(aspen.PathComponentsInput, "OUTNAME", idx), comp.Name},
		)
	}
	blockType := c.BlockType
	if blockType == "" {
		blockType = aspen.BlockFlash2
	}
	writes = append(writes,
		write{aspen.PathPropertiesInput + `\GOPSETNAME`, c.PropertySet},
		write{method + `\CPROP\1`, "GAMMA"},
		write{method + `\MODELNAME\1`, c.Method},
		write{block + `\Block Type`, blockType},
		write{block + `\Connections\Inlets\0`, c.Feed},
		write{stream + `\Mole Flow`, c.FeedFlow},
	)

	if c.PressureUnit != "" {
		if err := setUnit(app, stream+`\Pressure`, c.PressureUnit); err != nil {
			return err
		}
	}
	if c.Temperature.Unit != "" {
		if err := setUnit(app, stream+`\Temperature`, c.Temperature.Unit); err != nil {
			return err
		}
	}
	writes = append(writes, write{stream + `\Pressure`, c.Pressure})
	for _, comp := range c.Components {
		writes = append(writes, write{aspen.JoinPath(stream, `Composition\Mole Fractions`, comp.Name), comp.MoleFraction})
	}

	for _, w := range writes {
		if err := aspen.Set(app, w.path, w.value); err != nil {
			return fmt.Errorf("setup %s: %w", c.Name, err)
		}
	}
	logging.Sim("Set up %s: %d components, %s on %s, feed %s", c.Name, len(c.Components), c.Method, c.Block, c.Feed)
	return nil
}

func setUnit(app aspen.App, path, unit string) error {
	n, err := app.Node(path)
	if err != nil {
		return err
	}
	if err := n.SetUnit(unit); err != nil {
		return fmt.Errorf("set unit of %s: %w", path, err)
	}
	return nil
}
