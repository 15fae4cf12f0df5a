package utils

import (
	"bytes"
	stdjson "encoding/json"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PrettyJson formata payloads para logs de depuração
func PrettyJson(in any) string {
	var buffer []byte
	var err error

	if reflect.TypeOf(in) != reflect.TypeOf([]byte{}) {
		buffer, err = json.Marshal(in)
		if err != nil {
			logrus.WithError(err).Debug("Erro ao serializar para log")
			return ""
		}
	} else {
		buffer = in.([]byte)
	}

	// jsoniter só indenta com espaços
	var out bytes.Buffer
	if err := stdjson.Indent(&out, buffer, "", "\t"); err != nil {
		return string(buffer)
	}

	return out.String()
}
