// nmrml-acqu 读取 Bruker / Varian 采集参数并转换为 nmrML
//
// 使用方式:
//
//	nmrml-acqu read <实验目录>               # 打印采集参数
//	nmrml-acqu convert <目录>... --out <目录>  # 批量转换为 nmrML
//	nmrml-acqu detect <路径>                 # 识别厂商格式
//	nmrml-acqu formats                       # 支持的格式
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
