package sim

// Image is a scripted process memory source: a handful of mapped regions
// and a module table. Reads that touch any unmapped byte fail whole, the
// same way the real runtime fails reads crossing unmapped pages.
type Image struct {
	regions []region
	modules map[string]uint64
}

type region struct {
	base uint64
	data []byte
}

func NewImage() *Image {
	return &Image{modules: make(map[string]uint64)}
}

// Map copies data into the image at base. Overlapping regions are not
// merged; the first mapped region containing a read wins.
func (im *Image) Map(base uint64, data []byte) {
	d := make([]byte, len(data))
	copy(d, data)
	im.regions = append(im.regions, region{base: base, data: d})
}

// SetModule records a module's base address.
func (im *Image) SetModule(name string, base uint64) {
	im.modules[name] = base
}

// MapModule maps data at base and records it as module name.
func (im *Image) MapModule(name string, base uint64, data []byte) {
	im.Map(base, data)
	im.SetModule(name, base)
}

// Poke overwrites bytes inside an already-mapped region, for scripting
// value changes between ticks. It reports whether the range was mapped.
func (im *Image) Poke(addr uint64, data []byte) bool {
	for i := range im.regions {
		r := &im.regions[i]
		if addr >= r.base && addr+uint64(len(data)) <= r.base+uint64(len(r.data)) {
			copy(r.data[addr-r.base:], data)
			return true
		}
	}
	return false
}

func (im *Image) ReadAt(addr uint64, buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	for _, r := range im.regions {
		if addr >= r.base && addr+uint64(len(buf)) <= r.base+uint64(len(r.data)) {
			copy(buf, r.data[addr-r.base:])
			return true
		}
	}
	return false
}

func (im *Image) Module(name string) (uint64, bool) {
	base, ok := im.modules[name]
	return base, ok
}
