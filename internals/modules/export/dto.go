package export

import "time"

type FinishResponse struct {
	ConfigID  string    `json:"config_id"`
	CreatedAt time.Time `json:"created_at"`
	Location  string    `json:"location"`
}
