package types

import "github.com/bytedance/sonic"

func marshalStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return sonic.Marshal(values)
}

func unmarshalStrings(data []byte) ([]string, error) {
	var values []string
	if err := sonic.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
