package ucf_test

import (
	"strings"
	"testing"

	"github.com/alexforencich/fpga-utils/ucf"
)

func testPinout(t *testing.T) *ucf.Pinout {
	t.Helper()
	const table = `Pin,Pin Name,Bank
AB14,IO_L24P_T3_34,34
C12,IO_L5N_T0_16,16
E3,IO_0_D8,8
`
	p, err := ucf.ReadPackageFile(strings.NewReader(table), 0)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func Test_annotate_lines(t *testing.T) {
	p := testPinout(t)
	td := []struct {
		name string
		in   string
		want string
	}{
		{
			"uncommented",
			"NET \"clk\" LOC = \"AB14\";\n",
			"NET \"clk\" LOC = \"AB14\"; # Bank = 34, IO_L24P_T3_34\n",
		},
		{
			"lowercase_loc",
			"net \"clk\" loc=\"c12\";\n",
			"net \"clk\" loc=\"c12\"; # Bank = 16, IO_L5N_T0_16\n",
		},
		{
			"existing_comment_kept",
			"NET \"clk\" LOC = \"C12\"; # 100 MHz\n",
			"NET \"clk\" LOC = \"C12\"; # Bank = 16, IO_L5N_T0_16 100 MHz\n",
		},
		{
			"stale_pair_replaced",
			"NET \"d\" LOC = \"E3\"; # Bank = 99, IO_OLD_PIN extra\n",
			"NET \"d\" LOC = \"E3\"; # Bank = 8, IO_0_D8 extra\n",
		},
		{
			"stale_placeholder_replaced",
			"NET \"d\" LOC = \"E3\"; # Bank = ?, IO_? note\n",
			"NET \"d\" LOC = \"E3\"; # Bank = 8, IO_0_D8 note\n",
		},
		{
			"second_comment_preserved",
			"NET \"a\" LOC = \"C12\"; # Bank = 1, IO_X # keep me\n",
			"NET \"a\" LOC = \"C12\"; # Bank = 16, IO_L5N_T0_16 # keep me\n",
		},
		{
			"unknown_pin_untouched",
			"NET \"x\" LOC = \"ZZ99\";\n",
			"NET \"x\" LOC = \"ZZ99\";\n",
		},
		{
			"no_loc_untouched",
			"NET \"y\" IOSTANDARD = LVCMOS33;\n",
			"NET \"y\" IOSTANDARD = LVCMOS33;\n",
		},
		{
			"commented_out_untouched",
			"# NET \"clk\" LOC = \"AB14\";\n",
			"# NET \"clk\" LOC = \"AB14\";\n",
		},
		{
			"crlf_kept",
			"NET \"clk\" LOC = \"AB14\";\r\n",
			"NET \"clk\" LOC = \"AB14\"; # Bank = 34, IO_L24P_T3_34\r\n",
		},
		{
			"no_final_newline",
			"NET \"clk\" LOC = \"ab14\";",
			"NET \"clk\" LOC = \"ab14\"; # Bank = 34, IO_L24P_T3_34",
		},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			var b strings.Builder
			if err := p.Annotate(&b, strings.NewReader(d.in)); err != nil {
				t.Fatal(err)
			}
			if b.String() != d.want {
				t.Errorf("got  %q\nwant %q", b.String(), d.want)
			}
		})
	}
}

func Test_annotate_document(t *testing.T) {
	p := testPinout(t)
	const in = `# clock input
NET "clk" LOC = "AB14";
NET "clk" TNM_NET = "clk";

NET "led<0>" LOC = "E3"; # Bank = ?, IO_?
NET "led<1>" LOC = "F9";
`
	const want = `# clock input
NET "clk" LOC = "AB14"; # Bank = 34, IO_L24P_T3_34
NET "clk" TNM_NET = "clk";

NET "led<0>" LOC = "E3"; # Bank = 8, IO_0_D8
NET "led<1>" LOC = "F9";
`
	var b strings.Builder
	if err := p.Annotate(&b, strings.NewReader(in)); err != nil {
		t.Fatal(err)
	}
	if b.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}
