package ethereum

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// donationCampaignABI is the external interface of the DonationCampaign
// contract. The contract's internal accounting is out of scope here; the
// middleware only talks to these declared functions and events.
const donationCampaignABI = `[
  {"type":"function","name":"createCampaign","stateMutability":"nonpayable","inputs":[{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"fundingGoal","type":"uint256"},{"name":"durationDays","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"donate","stateMutability":"payable","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"approveCampaign","stateMutability":"nonpayable","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"closeCampaign","stateMutability":"nonpayable","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"withdrawFunds","stateMutability":"nonpayable","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getCampaignById","stateMutability":"view","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"id","type":"uint256"},{"name":"owner","type":"address"},{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"fundingGoal","type":"uint256"},{"name":"amountRaised","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"isApproved","type":"bool"},{"name":"isClosed","type":"bool"}]}]},
  {"type":"function","name":"getAllCampaigns","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"id","type":"uint256"},{"name":"owner","type":"address"},{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"fundingGoal","type":"uint256"},{"name":"amountRaised","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"isApproved","type":"bool"},{"name":"isClosed","type":"bool"}]}]},
  {"type":"function","name":"getCampaignDonations","stateMutability":"view","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"donor","type":"address"},{"name":"amount","type":"uint256"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"event","name":"CampaignCreated","anonymous":false,"inputs":[{"name":"campaignId","type":"uint256","indexed":true},{"name":"owner","type":"address","indexed":true},{"name":"title","type":"string","indexed":false},{"name":"fundingGoal","type":"uint256","indexed":false},{"name":"deadline","type":"uint256","indexed":false}]},
  {"type":"event","name":"DonationReceived","anonymous":false,"inputs":[{"name":"campaignId","type":"uint256","indexed":true},{"name":"donor","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]}
]`

// Campaign mirrors the on-chain campaign tuple.
type Campaign struct {
	Id           *big.Int
	Owner        common.Address
	Title        string
	Description  string
	FundingGoal  *big.Int
	AmountRaised *big.Int
	Deadline     *big.Int
	IsApproved   bool
	IsClosed     bool
}

// Donation mirrors the on-chain donation tuple.
type Donation struct {
	Donor     common.Address
	Amount    *big.Int
	Timestamp *big.Int
}

// CampaignCreatedEvent is the decoded CampaignCreated log.
type CampaignCreatedEvent struct {
	CampaignID  *big.Int
	Owner       common.Address
	Title       string
	FundingGoal *big.Int
	Deadline    *big.Int
}
