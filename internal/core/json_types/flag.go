package json_types

import "encoding/json"

// LockedFlag - булев флаг в legacy-формате бэкенда: строка "TRUE" либо
// что угодно falsy (пустая строка, "FALSE", false, null, отсутствие поля)
type LockedFlag bool

func (f *LockedFlag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null", "true":
		*f = string(data) == "true"
		return nil
	case "false":
		*f = false
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Неожиданный тип считаем falsy, ошибку не поднимаем
		*f = false
		return nil
	}

	*f = str == "TRUE"
	return nil
}

func (f LockedFlag) MarshalJSON() ([]byte, error) {
	if f {
		return json.Marshal("TRUE")
	}
	return json.Marshal("")
}
