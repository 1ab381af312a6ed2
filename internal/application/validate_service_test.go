package application

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/manifests"
	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/plist"
	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

const indexFixture = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>ManifestsApple</key>
	<dict>
		<key>com.apple.dock</key>
		<dict>
			<key>path</key>
			<string>Manifests/ManifestsApple/com.apple.dock.plist</string>
			<key>version</key>
			<integer>12</integer>
		</dict>
	</dict>
</dict>
</plist>`

const dockManifestFixture = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>pfm_domain</key>
	<string>com.apple.dock</string>
	<key>pfm_title</key>
	<string>Dock</string>
	<key>pfm_platforms</key>
	<array>
		<string>macOS</string>
	</array>
	<key>pfm_subkeys</key>
	<array>
		<dict>
			<key>pfm_name</key>
			<string>orientation</string>
			<key>pfm_type</key>
			<string>string</string>
			<key>pfm_range_list</key>
			<array>
				<string>left</string>
				<string>right</string>
				<string>bottom</string>
			</array>
		</dict>
	</array>
</dict>
</plist>`

const goodProfileFixture = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>PayloadType</key>
	<string>Configuration</string>
	<key>PayloadVersion</key>
	<integer>1</integer>
	<key>PayloadIdentifier</key>
	<string>com.example.dock-settings</string>
	<key>PayloadUUID</key>
	<string>F8297C5C-36CF-41A7-81F0-B17A72E0A2B0</string>
	<key>PayloadOrganization</key>
	<string>Example Org</string>
	<key>PayloadContent</key>
	<array>
		<dict>
			<key>PayloadType</key>
			<string>com.apple.dock</string>
			<key>PayloadVersion</key>
			<integer>1</integer>
			<key>PayloadIdentifier</key>
			<string>com.example.dock-settings.payload</string>
			<key>PayloadUUID</key>
			<string>A08A3CB2-9F6C-4302-AC1E-55D402EBC34D</string>
			<key>orientation</key>
			<string>left</string>
		</dict>
	</array>
</dict>
</plist>`

const badProfileFixture = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>PayloadType</key>
	<string>Configuration</string>
	<key>PayloadVersion</key>
	<integer>1</integer>
	<key>PayloadIdentifier</key>
	<string>com.example.broken-dock</string>
	<key>PayloadUUID</key>
	<string>0D0B8425-05B5-4B2A-B0F5-B4B2B8F8B001</string>
	<key>PayloadOrganization</key>
	<string>Example Org</string>
	<key>PayloadContent</key>
	<array>
		<dict>
			<key>PayloadType</key>
			<string>com.apple.dock</string>
			<key>PayloadVersion</key>
			<integer>1</integer>
			<key>PayloadIdentifier</key>
			<string>com.example.broken-dock.payload</string>
			<key>PayloadUUID</key>
			<string>3D6E8C30-72B6-4A5E-9D6C-8B4F2C1A9E07</string>
			<key>orientation</key>
			<string>top</string>
		</dict>
	</array>
</dict>
</plist>`

func newTestService(t *testing.T) *ValidateService {
	t.Helper()
	repoDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "Manifests", "ManifestsApple"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "Manifests", "index"), []byte(indexFixture), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "Manifests", "ManifestsApple", "com.apple.dock.plist"), []byte(dockManifestFixture), 0644))
	return NewValidateService(plist.New(), manifests.New(repoDir))
}

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateFile_EndToEnd(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	path := writeProfile(t, dir, "good.mobileconfig", goodProfileFixture)

	result := svc.ValidateFile(path)
	assert.Empty(t, result.Issues)
	assert.True(t, result.IsValid())
	assert.Equal(t, []string{"com.apple.dock"}, result.PayloadTypes)
	assert.Equal(t, 12, result.ManifestVersions["com.apple.dock"])
}

func TestValidateFiles_Batch(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	good := writeProfile(t, dir, "good.mobileconfig", goodProfileFixture)
	bad := writeProfile(t, dir, "bad.mobileconfig", badProfileFixture)
	missing := filepath.Join(dir, "missing.mobileconfig")

	batch := svc.ValidateFiles([]string{good, bad, missing})
	require.Len(t, batch.Results, 3)

	// Order is preserved.
	assert.Equal(t, good, batch.Results[0].FilePath)
	assert.Equal(t, bad, batch.Results[1].FilePath)
	assert.Equal(t, missing, batch.Results[2].FilePath)

	assert.True(t, batch.Results[0].IsValid())
	assert.False(t, batch.Results[1].IsValid())
	assert.False(t, batch.Results[2].IsValid())

	summary := batch.Summary()
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 1, summary.ValidFiles)
	assert.Equal(t, 2, summary.InvalidFiles)
	assert.False(t, summary.IsValid)
}

func TestValidateFiles_BadValueReported(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	bad := writeProfile(t, dir, "bad.mobileconfig", badProfileFixture)

	result := svc.ValidateFile(bad)
	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, domain.CodeValueNotAllowed, issue.Code)
	assert.Equal(t, "PayloadContent[0].orientation", issue.KeyPath)
	assert.Equal(t, "top", issue.Actual)
}

func TestValidateFiles_JSONReport(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	good := writeProfile(t, dir, "good.mobileconfig", goodProfileFixture)
	bad := writeProfile(t, dir, "bad.mobileconfig", badProfileFixture)

	batch := svc.ValidateFiles([]string{good, bad})

	data, err := json.Marshal(batch.Report())
	require.NoError(t, err)

	var report domain.BatchReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].IsValid)
	assert.False(t, report.Results[1].IsValid)
	assert.Equal(t, 1, report.Results[1].ErrorCount)
	assert.Equal(t, 1, report.Summary.ErrorCount)
	assert.Equal(t, 2, report.Summary.TotalFiles)
}
