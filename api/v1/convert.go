package protov1

import (
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
)

// Field names of the Struct messages exchanged by the service.
const (
	FieldVendorID     = "vendor_id"
	FieldProductID    = "product_id"
	FieldManufacturer = "manufacturer"
	FieldProduct      = "product"

	FieldState      = "state"
	FieldLaunchID   = "launch_id"
	FieldPid        = "pid"
	FieldStartTime  = "start_time"
	FieldExecutable = "executable"
	FieldLastExit   = "last_exit"
	FieldExitCode   = "code"
	FieldExitSignal = "signal"
	FieldExitError  = "error"

	FieldStream = "stream"
	FieldData   = "data"
)

func str(v string) *structpb.Value { return structpb.NewStringValue(v) }

// DevicesToList encodes device records in order.
func DevicesToList(devices []lib.DeviceRecord) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(devices))
	for _, d := range devices {
		values = append(values, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			FieldVendorID:     str(d.VendorID),
			FieldProductID:    str(d.ProductID),
			FieldManufacturer: str(d.Manufacturer),
			FieldProduct:      str(d.Product),
		}}))
	}
	return &structpb.ListValue{Values: values}
}

// DevicesFromList decodes device records; entries that are not structs are skipped.
func DevicesFromList(l *structpb.ListValue) []lib.DeviceRecord {
	out := make([]lib.DeviceRecord, 0, len(l.GetValues()))
	for _, v := range l.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			continue
		}
		out = append(out, lib.DeviceRecord{
			VendorID:     stringField(s, FieldVendorID),
			ProductID:    stringField(s, FieldProductID),
			Manufacturer: stringField(s, FieldManufacturer),
			Product:      stringField(s, FieldProduct),
		})
	}
	return out
}

// StatusToStruct encodes a supervisor snapshot. Absent values are omitted.
func StatusToStruct(st lib.ServerStatus) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldState: str(st.State.String()),
	}
	if st.LaunchID != "" {
		fields[FieldLaunchID] = str(st.LaunchID)
	}
	if st.Pid > 0 {
		fields[FieldPid] = structpb.NewNumberValue(float64(st.Pid))
	}
	if !st.StartTime.IsZero() {
		fields[FieldStartTime] = str(st.StartTime.UTC().Format(time.RFC3339Nano))
	}
	if st.Executable != "" {
		fields[FieldExecutable] = str(st.Executable)
	}
	if st.LastExit != nil {
		exit := map[string]*structpb.Value{}
		if st.LastExit.Code != nil {
			exit[FieldExitCode] = structpb.NewNumberValue(float64(*st.LastExit.Code))
		}
		if st.LastExit.Signal != "" {
			exit[FieldExitSignal] = str(st.LastExit.Signal)
		}
		if st.LastExit.Err != nil {
			exit[FieldExitError] = str(st.LastExit.Err.Error())
		}
		fields[FieldLastExit] = structpb.NewStructValue(&structpb.Struct{Fields: exit})
	}
	return &structpb.Struct{Fields: fields}
}

// StatusView is the client-side reading of a status Struct.
type StatusView struct {
	State      string
	LaunchID   string
	Pid        int
	StartTime  time.Time
	Executable string
	LastExit   string
}

// StatusFromStruct decodes a status Struct.
func StatusFromStruct(s *structpb.Struct) StatusView {
	v := StatusView{
		State:      stringField(s, FieldState),
		LaunchID:   stringField(s, FieldLaunchID),
		Pid:        int(s.GetFields()[FieldPid].GetNumberValue()),
		Executable: stringField(s, FieldExecutable),
	}
	if ts := stringField(s, FieldStartTime); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			v.StartTime = t
		}
	}
	if exit := s.GetFields()[FieldLastExit].GetStructValue(); exit != nil {
		f := exit.GetFields()
		switch {
		case f[FieldExitCode] != nil:
			code := int(f[FieldExitCode].GetNumberValue())
			v.LastExit = lib.ExitStatus{Code: &code}.String()
		case f[FieldExitSignal] != nil:
			v.LastExit = lib.ExitStatus{Signal: f[FieldExitSignal].GetStringValue()}.String()
		case f[FieldExitError] != nil:
			v.LastExit = f[FieldExitError].GetStringValue()
		}
	}
	return v
}

// OutputChunk wraps one piece of backend output. Invalid UTF-8 is replaced
// since proto strings must be valid UTF-8.
func OutputChunk(stream string, data []byte) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldStream: str(stream),
		FieldData:   str(strings.ToValidUTF8(string(data), "�")),
	}}
}

// ParseOutputChunk returns the stream name and data of an output chunk.
func ParseOutputChunk(s *structpb.Struct) (stream, data string) {
	return stringField(s, FieldStream), stringField(s, FieldData)
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}
