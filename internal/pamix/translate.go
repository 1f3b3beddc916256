package pamix

import (
	"sort"
	"strings"

	"github.com/jfreymuth/pulse/proto"

	"github.com/ratchov/volkeys/internal/control"
)

// volumeNorm is the PulseAudio volume corresponding to 100%; it is also
// the upper bound exposed on level controls.
const volumeNorm = 0x10000

// anyIndex is PA_INVALID_INDEX, used where the protocol selects an object
// by name (or the default object) instead of by index.
const anyIndex = 0xffffffff

// Control addresses are synthesized as fac<<28 | index<<4 | slot, so one
// server object yields a compact, stable address per exposed parameter.
// Addresses die with the object and may be reused by the server later,
// which is exactly the contract control.Addr documents.
const (
	facSink = iota + 1
	facSource
	facSinkInput
	facDevice
)

const (
	slotLevel = iota
	slotMute
	slotSelect
)

func makeAddr(fac int, idx uint32, slot int) control.Addr {
	return control.Addr(uint32(fac)<<28 | (idx&0xffffff)<<4 | uint32(slot))
}

func splitAddr(a control.Addr) (fac int, idx uint32, slot int) {
	return int(a >> 28), uint32(a>>4) & 0xffffff, int(a & 0xf)
}

// entry is the client-side mirror of one exposed control: the descriptor
// handed to the registry plus the transport details needed to write it
// back (channel count for volume commands, object name for set-default).
type entry struct {
	desc     control.Desc
	value    int
	channels int
	object   string
}

// levelOf reduces per-channel volumes to the single scalar the control
// model exposes, clamped to 100%.
func levelOf[V ~uint32](cv []V) int {
	if len(cv) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range cv {
		sum += uint64(v)
	}
	avg := int(sum / uint64(len(cv)))
	if avg > volumeNorm {
		avg = volumeNorm
	}
	return avg
}

// flatVolume builds a volume list setting every channel to value.
func flatVolume[C ~[]V, V ~uint32](channels, value int) C {
	if channels < 1 {
		channels = 1
	}
	if value < 0 {
		value = 0
	}
	cv := make(C, channels)
	for i := range cv {
		cv[i] = V(value)
	}
	return cv
}

func boolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}

// streamName derives a short control name from a stream's media name:
// lowercase letters and digits only, truncated, "app" when nothing
// printable remains.
func streamName(media string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(media) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() >= 12 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "app"
	}
	return b.String()
}

// buildEntries translates one full server snapshot into the exposed
// control set:
//
//   - the default sink becomes output.level and output.mute
//   - the default source becomes input.level and input.mute
//   - every sink contributes one server.device selector entry, active on
//     the current default
//   - every playback stream becomes app/<name><unit>.level and .mute
func buildEntries(server *proto.GetServerInfoReply,
	sinks proto.GetSinkInfoListReply,
	sources proto.GetSourceInfoListReply,
	streams proto.GetSinkInputInfoListReply) map[control.Addr]entry {

	set := make(map[control.Addr]entry)
	add := func(e entry) { set[e.desc.Addr] = e }

	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		isDefault := sink.SinkName == server.DefaultSinkName
		add(entry{
			desc: control.Desc{
				Addr:     makeAddr(facDevice, sink.SinkIndex, slotSelect),
				Name:     "server",
				Unit:     -1,
				Func:     "device",
				Kind:     control.KindSelector,
				MaxValue: 1,
				Label:    sink.Device,
			},
			value:  boolValue(isDefault),
			object: sink.SinkName,
		})
		if !isDefault {
			continue
		}
		add(entry{
			desc: control.Desc{
				Addr:     makeAddr(facSink, sink.SinkIndex, slotLevel),
				Name:     "output",
				Unit:     -1,
				Func:     "level",
				Kind:     control.KindNumeric,
				MaxValue: volumeNorm,
			},
			value:    levelOf(sink.ChannelVolumes),
			channels: len(sink.ChannelVolumes),
			object:   sink.SinkName,
		})
		add(entry{
			desc: control.Desc{
				Addr:     makeAddr(facSink, sink.SinkIndex, slotMute),
				Name:     "output",
				Unit:     -1,
				Func:     "mute",
				Kind:     control.KindSwitch,
				MaxValue: 1,
			},
			value:  boolValue(sink.Mute),
			object: sink.SinkName,
		})
	}

	for _, source := range sources {
		if source == nil || source.SourceName != server.DefaultSourceName {
			continue
		}
		add(entry{
			desc: control.Desc{
				Addr:     makeAddr(facSource, source.SourceIndex, slotLevel),
				Name:     "input",
				Unit:     -1,
				Func:     "level",
				Kind:     control.KindNumeric,
				MaxValue: volumeNorm,
			},
			value:    levelOf(source.ChannelVolumes),
			channels: len(source.ChannelVolumes),
			object:   source.SourceName,
		})
		add(entry{
			desc: control.Desc{
				Addr:     makeAddr(facSource, source.SourceIndex, slotMute),
				Name:     "input",
				Unit:     -1,
				Func:     "mute",
				Kind:     control.KindSwitch,
				MaxValue: 1,
			},
			value:  boolValue(source.Mute),
			object: source.SourceName,
		})
	}

	for _, stream := range streams {
		if stream == nil {
			continue
		}
		name := streamName(stream.MediaName)
		unit := int(stream.SinkInputIndex & 0xffffff)
		add(entry{
			desc: control.Desc{
				Addr:     makeAddr(facSinkInput, stream.SinkInputIndex, slotLevel),
				Group:    "app",
				Name:     name,
				Unit:     unit,
				Func:     "level",
				Kind:     control.KindNumeric,
				MaxValue: volumeNorm,
			},
			value:    levelOf(stream.ChannelVolumes),
			channels: len(stream.ChannelVolumes),
		})
		add(entry{
			desc: control.Desc{
				Addr:     makeAddr(facSinkInput, stream.SinkInputIndex, slotMute),
				Group:    "app",
				Name:     name,
				Unit:     unit,
				Func:     "mute",
				Kind:     control.KindSwitch,
				MaxValue: 1,
			},
			value: boolValue(stream.Muted),
		})
	}

	return set
}

// diffEntries turns two snapshots into the delta events that bring a
// receiver from old to new: removals first, then additions, descriptor
// reissues and plain value changes, each pass in address order so the
// stream is deterministic.
func diffEntries(old, new map[control.Addr]entry) []Event {
	var events []Event

	for _, addr := range sortedAddrs(old) {
		if _, ok := new[addr]; !ok {
			events = append(events, Removed{Addr: addr})
		}
	}
	for _, addr := range sortedAddrs(new) {
		e := new[addr]
		prev, ok := old[addr]
		switch {
		case !ok || prev.desc != e.desc:
			events = append(events, Added{Desc: e.desc, Value: e.value})
		case prev.value != e.value:
			// Selector entries are never reported as deactivated:
			// activating the new entry implies it, and receivers treat
			// any selector notification as one-hot activation.
			if e.desc.Kind == control.KindSelector && e.value == 0 {
				continue
			}
			events = append(events, ValueChanged{Addr: addr, Value: e.value})
		}
	}
	return events
}

func sortedAddrs(set map[control.Addr]entry) []control.Addr {
	addrs := make([]control.Addr, 0, len(set))
	for addr := range set {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}
