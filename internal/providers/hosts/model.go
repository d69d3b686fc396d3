package hosts

// Host is one saved connection. JSON field names are the frontend's
// wire contract; column names keep compatibility with databases written
// by earlier releases, including the legacy plaintext password column.
type Host struct {
	ID           string   `json:"id" gorm:"primaryKey"`
	SortOrder    *int64   `json:"sortOrder" gorm:"column:sort_order;not null;default:0"`
	Name         string   `json:"name" gorm:"not null"`
	Alias        string   `json:"alias" gorm:"not null"`
	Hostname     string   `json:"hostname" gorm:"not null"`
	User         string   `json:"user" gorm:"not null"`
	Port         uint16   `json:"port" gorm:"not null"`
	Password     *string  `json:"password,omitempty" gorm:"-"`
	HasPassword  bool     `json:"hasPassword" gorm:"column:has_password;not null;default:false"`
	IdentityFile *string  `json:"identityFile" gorm:"column:identity_file"`
	ProxyJump    *string  `json:"proxyJump" gorm:"column:proxy_jump"`
	EnvVars      *string  `json:"envVars" gorm:"column:env_vars"`
	Encoding     *string  `json:"encoding"`
	Tags         []string `json:"tags" gorm:"column:tags_json;serializer:json;not null"`
	Notes        string   `json:"notes" gorm:"not null"`
	UpdatedAt    string   `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime:false"`
	Deleted      bool     `json:"deleted" gorm:"not null"`
}

func (Host) TableName() string { return "hosts" }

// DefaultPort is used when an imported host carries no port.
const DefaultPort uint16 = 22

// Keychain is the slice of the credential store the host store needs.
type Keychain interface {
	Set(hostID, password string) error
	Delete(hostID string) error
	Has(hostID string) bool
}

// ConfigWriter regenerates the ssh_config rendering of the host list.
type ConfigWriter interface {
	WriteConfig(hosts []Host) error
}
