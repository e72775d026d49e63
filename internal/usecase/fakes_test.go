package usecase

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

const testChainID = 31337

const erc20ABI = `[
	{"type":"constructor","inputs":[]},
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

const tokenFarmABI = `[
	{"type":"constructor","inputs":[{"name":"_nelTokenAddress","type":"address"}]}
]`

const aggregatorABI = `[
	{"type":"constructor","inputs":[{"name":"_decimals","type":"uint8"},{"name":"_initialAnswer","type":"int256"}]}
]`

func testArtifact(t *testing.T, name, rawABI string) *models.Artifact {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	require.NoError(t, err)
	return &models.Artifact{
		Name:     name,
		Path:     "build/contracts/" + name + ".json",
		RawABI:   []byte(rawABI),
		ABI:      parsed,
		Bytecode: []byte{0x60, 0x80, 0x60, 0x40},
	}
}

func testArtifacts(t *testing.T) *fakeArtifacts {
	t.Helper()
	return &fakeArtifacts{artifacts: map[string]*models.Artifact{
		domain.NellariumContract:        testArtifact(t, domain.NellariumContract, erc20ABI),
		domain.TokenFarmContract:        testArtifact(t, domain.TokenFarmContract, tokenFarmABI),
		domain.MockV3AggregatorContract: testArtifact(t, domain.MockV3AggregatorContract, aggregatorABI),
		domain.MockDAIContract:          testArtifact(t, domain.MockDAIContract, erc20ABI),
		domain.MockWETHContract:         testArtifact(t, domain.MockWETHContract, erc20ABI),
	}}
}

func testConfig(kind domain.NetworkKind) *config.RuntimeConfig {
	network := &domain.Network{
		Name:     "development",
		Kind:     kind,
		RPCURL:   "http://127.0.0.1:8545",
		ChainID:  testChainID,
		Mnemonic: "test test test test test test test test test test test junk",
	}
	if kind == domain.NetworkLive {
		network.Name = "kovan"
		network.Mnemonic = ""
	}
	return &config.RuntimeConfig{
		Network:       network,
		Confirmations: 1,
		Project: &config.ProjectConfig{
			Wallets: config.WalletsConfig{FromKey: "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"},
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeArtifacts serves artifacts from a map
type fakeArtifacts struct {
	artifacts map[string]*models.Artifact
}

func (f *fakeArtifacts) Get(_ context.Context, name string) (*models.Artifact, error) {
	if a, ok := f.artifacts[name]; ok {
		return a, nil
	}
	return nil, domain.ArtifactNotFoundErr{Name: name}
}

// txCall records a submitted transaction
type txCall struct {
	Contract string
	Address  common.Address
	Method   string
	Args     []any
}

// fakeChain is an in-memory chain: deployments get sequential addresses and
// views are answered by callFunc.
type fakeChain struct {
	mu       sync.Mutex
	chainID  uint64
	next     int64
	code     map[common.Address]bool
	deployed []string
	txs      []txCall

	chainIDErr   error
	transactFunc func(contract *models.Contract, method string, args []any) error
	callFunc     func(contract *models.Contract, method string, args []any) ([]any, error)
}

func newFakeChain() *fakeChain {
	return &fakeChain{chainID: testChainID, next: 0x1000, code: make(map[common.Address]bool)}
}

func (f *fakeChain) ChainID(context.Context) (uint64, error) {
	return f.chainID, f.chainIDErr
}

func (f *fakeChain) Deploy(_ context.Context, _ *models.Account, artifact *models.Artifact, _ ...any) (*models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	address := common.BigToAddress(big.NewInt(f.next))
	f.code[address] = true
	f.deployed = append(f.deployed, artifact.Name)
	return &models.Receipt{
		TxHash:          common.BigToHash(big.NewInt(f.next)),
		BlockNumber:     uint64(len(f.deployed)),
		ContractAddress: address,
	}, nil
}

func (f *fakeChain) Transact(_ context.Context, _ *models.Account, contract *models.Contract, method string, args ...any) (*models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transactFunc != nil {
		if err := f.transactFunc(contract, method, args); err != nil {
			return nil, err
		}
	}
	f.txs = append(f.txs, txCall{Contract: contract.Name, Address: contract.Address, Method: method, Args: args})
	return &models.Receipt{TxHash: common.BigToHash(big.NewInt(int64(len(f.txs))))}, nil
}

func (f *fakeChain) Call(_ context.Context, contract *models.Contract, method string, args ...any) ([]any, error) {
	if f.callFunc != nil {
		return f.callFunc(contract, method, args)
	}
	switch method {
	case "totalSupply":
		return []any{new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e18))}, nil
	case "name":
		return []any{contract.Name}, nil
	}
	return nil, fmt.Errorf("unexpected call %s.%s", contract.Name, method)
}

func (f *fakeChain) HasCode(_ context.Context, address common.Address) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code[address], nil
}

func (f *fakeChain) methods() []string {
	out := make([]string, 0, len(f.txs))
	for _, tx := range f.txs {
		out = append(out, tx.Contract+"."+tx.Method)
	}
	return out
}

// fakeDeployments is an in-memory registry keeping insertion order
type fakeDeployments struct {
	mu      sync.Mutex
	records []*models.Deployment
	saveErr error
}

func (f *fakeDeployments) Save(_ context.Context, d *models.Deployment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, d)
	return nil
}

func (f *fakeDeployments) Latest(_ context.Context, chainID uint64, name string) (*models.Deployment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.records) - 1; i >= 0; i-- {
		if d := f.records[i]; d.ChainID == chainID && d.ContractName == name {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDeployments) List(_ context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Deployment
	for _, d := range f.records {
		if filter.ChainID != 0 && d.ChainID != filter.ChainID {
			continue
		}
		if filter.ContractName != "" && d.ContractName != filter.ContractName {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDeployments) MarkVerified(_ context.Context, chainID uint64, address string, status models.VerificationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.records {
		if d.ChainID == chainID && d.Address == address {
			d.Verification = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeDeployments) Prune(_ context.Context, chainID uint64, addresses []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	drop := make(map[string]bool, len(addresses))
	for _, a := range addresses {
		drop[a] = true
	}
	kept := f.records[:0]
	for _, d := range f.records {
		if d.ChainID == chainID && drop[d.Address] {
			continue
		}
		kept = append(kept, d)
	}
	f.records = kept
	return nil
}

// fakeLoader builds accounts without touching key material
type fakeLoader struct {
	calls []string

	fromMnemonicFunc func(mnemonic string, index int) (*models.Account, error)
	fromKeystoreFunc func(id string) (*models.Account, error)
	fromKeyFunc      func(key string) (*models.Account, error)
}

func (f *fakeLoader) FromMnemonic(_ context.Context, mnemonic string, index int, _ uint64) (*models.Account, error) {
	f.calls = append(f.calls, fmt.Sprintf("mnemonic:%d", index))
	if f.fromMnemonicFunc != nil {
		return f.fromMnemonicFunc(mnemonic, index)
	}
	return &models.Account{
		Address: common.BigToAddress(big.NewInt(int64(0xA0 + index))),
		Source:  models.AccountSourceMnemonic,
		Index:   index,
	}, nil
}

func (f *fakeLoader) FromKeystore(_ context.Context, id string, _ uint64) (*models.Account, error) {
	f.calls = append(f.calls, "keystore:"+id)
	if f.fromKeystoreFunc != nil {
		return f.fromKeystoreFunc(id)
	}
	return &models.Account{Address: common.HexToAddress("0xB0"), Source: models.AccountSourceKeystore, ID: id}, nil
}

func (f *fakeLoader) FromPrivateKey(_ context.Context, key string, _ uint64) (*models.Account, error) {
	f.calls = append(f.calls, "private_key")
	if f.fromKeyFunc != nil {
		return f.fromKeyFunc(key)
	}
	return &models.Account{Address: common.HexToAddress("0xC0"), Source: models.AccountSourcePrivateKey}, nil
}

// fakeVerifier records verification requests
type fakeVerifier struct {
	verified []string
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, d *models.Deployment) error {
	f.verified = append(f.verified, d.ContractName)
	return f.err
}

// recordingProgress keeps every message
type recordingProgress struct {
	mu       sync.Mutex
	messages []string
	errors   []string
}

func (p *recordingProgress) OnProgress(_ context.Context, event ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, event.Message)
}

func (p *recordingProgress) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func (p *recordingProgress) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, message)
}

// harness wires the deployment use cases over the fakes
type harness struct {
	cfg         *config.RuntimeConfig
	chain       *fakeChain
	artifacts   *fakeArtifacts
	deployments *fakeDeployments
	loader      *fakeLoader
	verifier    *fakeVerifier
	progress    *recordingProgress

	accounts  *GetAccount
	deployer  *DeployContract
	locator   *LocateContract
	mocks     *DeployMocks
	contracts *GetContract
	nellarium *DeployNellarium
	farm      *DeployTokenFarm
	all       *DeployAll
	tokens    *ResolveToken
}

func newHarness(t *testing.T, kind domain.NetworkKind) *harness {
	t.Helper()
	h := &harness{
		cfg:         testConfig(kind),
		chain:       newFakeChain(),
		artifacts:   testArtifacts(t),
		deployments: &fakeDeployments{},
		loader:      &fakeLoader{},
		verifier:    &fakeVerifier{},
		progress:    &recordingProgress{},
	}
	log := testLogger()
	h.accounts = NewGetAccount(h.cfg, h.chain, h.loader, log)
	h.deployer = NewDeployContract(h.cfg, h.chain, h.artifacts, h.deployments, h.verifier, h.progress, log)
	h.locator = NewLocateContract(h.chain, h.artifacts, h.deployments)
	h.mocks = NewDeployMocks(h.cfg, h.accounts, h.deployer, h.progress, log)
	h.contracts = NewGetContract(h.cfg, h.locator, h.mocks, log)
	h.nellarium = NewDeployNellarium(h.accounts, h.deployer, h.progress)
	allow := NewAddAllowedTokens(h.chain, h.progress, log)
	h.farm = NewDeployTokenFarm(h.cfg, h.chain, h.accounts, h.deployer, h.locator, h.contracts, allow, h.progress, log)
	h.all = NewDeployAll(h.nellarium, h.farm)
	h.tokens = NewResolveToken(h.locator, h.contracts)
	return h
}

// fakeNodeManager simulates a node process
type fakeNodeManager struct {
	running   bool
	healthy   bool
	started   int
	stopped   int
	startErr  error
	snapshots []string
	reverted  []string
}

func (f *fakeNodeManager) Start(_ context.Context, instance *domain.NodeInstance) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	f.running = true
	f.healthy = true
	instance.LogFile = "/tmp/tokenfarm-" + instance.Name + ".log"
	return nil
}

func (f *fakeNodeManager) Stop(context.Context, *domain.NodeInstance) error {
	f.stopped++
	f.running = false
	f.healthy = false
	return nil
}

func (f *fakeNodeManager) GetStatus(_ context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	status := &domain.NodeStatus{Running: f.running, RPCHealthy: f.healthy, LogFile: instance.LogFile}
	if f.running {
		status.PID = 4242
	}
	return status, nil
}

func (f *fakeNodeManager) StreamLogs(context.Context, *domain.NodeInstance, io.Writer) error {
	return fs.ErrNotExist
}

func (f *fakeNodeManager) TakeSnapshot(context.Context, *domain.NodeInstance) (string, error) {
	id := fmt.Sprintf("0x%x", len(f.snapshots)+1)
	f.snapshots = append(f.snapshots, id)
	return id, nil
}

func (f *fakeNodeManager) RevertSnapshot(_ context.Context, _ *domain.NodeInstance, id string) error {
	f.reverted = append(f.reverted, id)
	return nil
}
