package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/errors"
)

// DeploymentConfig is the name under which the deployment configuration is
// kept in the genesis file and in the database.
const DeploymentConfig = "deployment"

// maxNameLength limits the human readable name of a deployment.
const maxNameLength = 128

// Deployment describes a deployed ledger instance. It is read once from the
// genesis file and never changes afterwards.
type Deployment struct {
	// Owner is the account the ledger is deployed under. Only the owner
	// can change the ledger state.
	Owner string `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	// Name is an optional human readable label.
	Name string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *Deployment) Reset()         { *m = Deployment{} }
func (m *Deployment) String() string { return proto.CompactTextString(m) }
func (*Deployment) ProtoMessage()    {}

// Validate ensures the owner is a well formed account.
func (m *Deployment) Validate() error {
	if err := disburse.AccountID(m.Owner).Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if len(m.Name) > maxNameLength {
		return errors.Wrapf(errors.ErrInput, "name longer than %d characters", maxNameLength)
	}
	return nil
}

// LoadGenesis reads a genesis file into the options passed to the
// initializers.
func LoadGenesis(filePath string) (disburse.Options, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	var opts disburse.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return opts, nil
}

// WriteGenesis stores the options as an indented JSON genesis file.
func WriteGenesis(filePath string, opts disburse.Options) error {
	raw, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "marshaling genesis: %s", err)
	}
	if err := ioutil.WriteFile(filePath, raw, 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "writing genesis file: %s", err)
	}
	return nil
}
